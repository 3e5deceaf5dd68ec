package bootstrap

import (
	"github.com/kbukum/vpgbench/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) and defines
// its own ApplyDefaults and Validate satisfies it.
//
//	type Bench struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Solver Solver `yaml:"solver" mapstructure:"solver"`
//	}
//
//	app, err := bootstrap.NewApp[*config.Bench](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
