package model

import "time"

type Session struct {
	UserID    int64
	Username  string
	CreatedAt time.Time
}
