// Package loadtest drives a running matchday service with generated rosters
// and checks every returned plan.
package loadtest

import (
	"runtime"
	"time"

	"github.com/spf13/pflag"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Rosters      int           // Number of rosters to submit
	RosterSize   int           // Participants per roster
	GroupSize    int           // Starters per group
	InactivePct  int           // Share of participants marked inactive, in percent
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between plan status checks
	PollTimeout  time.Duration // How long to wait for one plan
	Seed         uint64        // Roster generator seed; 0 picks one from the clock
	OutputFile   string        // Optional JSON file for the generated rosters
	Verbose      bool          // Log every plan
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:9080",
		Rosters:      defaultRosters,
		RosterSize:   defaultRosterSize,
		GroupSize:    defaultGroupSize,
		InactivePct:  defaultInactivePct,
		Workers:      runtime.NumCPU() * defaultWorkerMultiplier,
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
		PollTimeout:  defaultPollTimeout,
	}
}

// BindFlags registers the configuration flags on fs. Flag values are
// written into c when fs is parsed.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.BaseURL, "url", "u", c.BaseURL, "base URL of the service")
	fs.IntVarP(&c.Rosters, "rosters", "n", c.Rosters, "number of rosters to submit")
	fs.IntVar(&c.RosterSize, "roster-size", c.RosterSize, "participants per roster")
	fs.IntVarP(&c.GroupSize, "group-size", "g", c.GroupSize, "starters per group")
	fs.IntVar(&c.InactivePct, "inactive", c.InactivePct, "percentage of inactive participants")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "number of concurrent submitters")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "HTTP request timeout")
	fs.DurationVar(&c.PollInterval, "poll-interval", c.PollInterval, "delay between plan status checks")
	fs.DurationVar(&c.PollTimeout, "poll-timeout", c.PollTimeout, "how long to wait for one plan")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "roster generator seed (0 = from clock)")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "write generated rosters to this JSON file")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log every plan")
}

// Stats holds run statistics.
type Stats struct {
	RostersGenerated int
	Submitted        int
	Accepted         int
	Duplicate        int
	Rejected         int
	Completed        int
	Failed           int
	TimedOut         int
	Verified         int
	Violations       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
