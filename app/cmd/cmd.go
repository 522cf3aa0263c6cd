package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bobylevd/team-balancer/app/store"
)

// CommonOpts contains information that is common for all commands.
type CommonOpts struct {
	Version       string
	StoreLocation string
	Stdout        io.Writer
}

// Set sets the common options.
func (c *CommonOpts) Set(cc CommonOpts) {
	c.Version = cc.Version
	c.StoreLocation = cc.StoreLocation
	c.Stdout = cc.Stdout
}

func (c *CommonOpts) out() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// openService opens the store at the common location.
func (c *CommonOpts) openService() (*store.Service, func(), error) {
	s, err := store.New(c.StoreLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	closeFn := func() {
		if err := s.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}

	return &store.Service{Store: s}, closeFn, nil
}
