package psxApi

// The ticks endpoint carries no company names, so they are resolved locally.
var companyNames = map[string]string{
	"AIRLINK": "Air Link Communication Limited",
	"AKBL":    "Askari Bank Limited",
	"ATRL":    "Attock Refinery Limited",
	"BAFL":    "Bank Alfalah Limited",
	"BAHL":    "Bank AL Habib Limited",
	"DGKC":    "D.G. Khan Cement Company Limited",
	"EFERT":   "Engro Fertilizers Limited",
	"ENGRO":   "Engro Corporation Limited",
	"FABL":    "Faysal Bank Limited",
	"FFC":     "Fauji Fertilizer Company Limited",
	"GAL":     "Ghandhara Automobiles Limited",
	"GLAXO":   "GlaxoSmithKline Pakistan Limited",
	"HBL":     "Habib Bank Limited",
	"HCAR":    "Honda Atlas Cars (Pakistan) Limited",
	"HUBC":    "The Hub Power Company Limited",
	"INDU":    "Indus Motor Company Limited",
	"ISL":     "International Steels Limited",
	"KEL":     "K-Electric Limited",
	"LUCK":    "Lucky Cement Limited",
	"MARI":    "Mari Petroleum Company Limited",
	"MCB":     "MCB Bank Limited",
	"MEBL":    "Meezan Bank Limited",
	"MLCF":    "Maple Leaf Cement Factory Limited",
	"MTL":     "Millat Tractors Limited",
	"NBP":     "National Bank of Pakistan",
	"NML":     "Nishat Mills Limited",
	"OGDC":    "Oil & Gas Development Company Limited",
	"POL":     "Pakistan Oilfields Limited",
	"PPL":     "Pakistan Petroleum Limited",
	"PSMC":    "Pak Suzuki Motor Company Limited",
	"PSO":     "Pakistan State Oil Company Limited",
	"SEARL":   "The Searle Company Limited",
	"SNGP":    "Sui Northern Gas Pipelines Limited",
	"SSGC":    "Sui Southern Gas Company Limited",
	"SYS":     "Systems Limited",
	"TRG":     "TRG Pakistan Limited",
	"UBL":     "United Bank Limited",
}

func companyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol
}
