package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Jon-Bright/ledbeat/configuration"
	"github.com/Jon-Bright/ledbeat/logging"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

const powerPoll = 50 * time.Millisecond

// Power switches the LED supply through a GPIO pin, optionally waiting for a
// second pin to report healthy power. A Power without a control pin does
// nothing and is always on.
type Power struct {
	ctrl   gpio.PinOut
	status gpio.PinIn
	wait   time.Duration
	on     bool
	logger *zap.SugaredLogger
}

func NewPower(ctrl gpio.PinOut, status gpio.PinIn, wait time.Duration) *Power {
	return &Power{ctrl: ctrl, status: status, wait: wait, on: ctrl == nil, logger: logging.New("power")}
}

// OpenPower looks the configured pins up by name.
func OpenPower(cfg configuration.PowerConfiguration) (*Power, error) {
	if cfg.CtrlPin == "" {
		return NewPower(nil, nil, 0), nil
	}
	ctrl := gpioreg.ByName(cfg.CtrlPin)
	if ctrl == nil {
		return nil, fmt.Errorf("no such GPIO pin '%s'", cfg.CtrlPin)
	}
	var status gpio.PinIn
	if cfg.StatusPin != "" {
		p := gpioreg.ByName(cfg.StatusPin)
		if p == nil {
			return nil, fmt.Errorf("no such GPIO pin '%s'", cfg.StatusPin)
		}
		status = p
	}
	return NewPower(ctrl, status, cfg.StatusWait), nil
}

func (p *Power) Init() error {
	if p.ctrl == nil {
		return nil
	}
	if err := p.ctrl.Out(gpio.Low); err != nil {
		return fmt.Errorf("couldn't set power control to output: %w", err)
	}
	if p.status == nil {
		return nil
	}
	if err := p.status.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("couldn't set power status to input: %w", err)
	}
	return nil
}

func (p *Power) IsOn() bool {
	return p.on
}

func (p *Power) On(ctx context.Context) error {
	if p.ctrl == nil {
		return nil
	}
	p.logger.Info("power on")
	if err := p.ctrl.Out(gpio.High); err != nil {
		return fmt.Errorf("couldn't set power control high: %w", err)
	}
	if p.status == nil {
		p.on = true
		return nil
	}
	start := time.Now()
	for {
		if p.status.Read() == gpio.High {
			p.logger.Infow("power stabilised", "after", time.Since(start))
			p.on = true
			return nil
		}
		if time.Since(start) > p.wait {
			return fmt.Errorf("timed out waiting for power to be healthy after %v", time.Since(start))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(powerPoll):
		}
	}
}

func (p *Power) Off() error {
	if p.ctrl == nil {
		return nil
	}
	p.logger.Info("power off")
	if err := p.ctrl.Out(gpio.Low); err != nil {
		return fmt.Errorf("couldn't set power control low: %w", err)
	}
	// The status pin lags behind and nothing depends on it going low.
	p.on = false
	return nil
}
