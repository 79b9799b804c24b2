package main

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"tecawayBack/internal/metrics"
	"tecawayBack/internal/search"
)

// startSessionCleaner drops search sessions idle for longer than idle.
func startSessionCleaner(sessions *search.Sessions, every, idle time.Duration, infoLog *log.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@every "+every.String(), func() {
		removed := sessions.Sweep(idle)
		if removed == 0 {
			return
		}
		metrics.SearchSessionsSwept.Add(float64(removed))
		infoLog.Printf("session cleaner: removed %d idle search sessions, %d left", removed, sessions.Count())
	})
	if err != nil {
		log.Fatalf("session cleaner: %v", err)
	}
	c.Start()
	return c
}
