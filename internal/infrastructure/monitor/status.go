package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Feed       bool      `json:"feed"`
	FeedSize   int       `json:"feed_size"`
	LastCheck  time.Time `json:"last_check"`
}
