package cli

import "time"

type Options struct {
	Command    string
	Query      string
	APIBaseURL string
	PrinterURL string
	Receipt    bool
	JSON       bool
	Debug      bool
	LogFile    string
	Timeout    time.Duration
}
