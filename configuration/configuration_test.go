package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigFromArgs(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		pass bool
		want func(t *testing.T, cfg Configuration)
	}{
		{
			name: "defaults",
			pass: true,
			want: func(t *testing.T, cfg Configuration) {
				assert.Equal(t, "none", cfg.Debug)
				assert.Equal(t, "memory", cfg.Strip.Chip)
				assert.Equal(t, 160, cfg.Strip.Pixels)
				assert.Equal(t, 10*time.Millisecond, cfg.Tick)
				assert.Equal(t, 2*time.Second, cfg.Power.StatusWait)
				assert.Empty(t, cfg.Power.CtrlPin)
			},
		},
		{
			name: "flags",
			args: []string{"--debug", "dryrun", "--ledchip", "lpd8806", "--pixels", "32", "--spi-speed", "2000000", "--tick", "5ms", "--power-ctrl-pin", "GPIO17"},
			pass: true,
			want: func(t *testing.T, cfg Configuration) {
				assert.Equal(t, "dryrun", cfg.Debug)
				assert.Equal(t, "lpd8806", cfg.Strip.Chip)
				assert.Equal(t, 32, cfg.Strip.Pixels)
				assert.Equal(t, int64(2000000), cfg.Strip.SPISpeed)
				assert.Equal(t, 5*time.Millisecond, cfg.Tick)
				assert.Equal(t, "GPIO17", cfg.Power.CtrlPin)
			},
		},
		{
			name: "environment",
			env:  map[string]string{"LEDBEAT_CHIP": "opc", "LEDBEAT_OPC_CHANNEL": "3", "LEDBEAT_SCENE": "/etc/ledbeat.yaml"},
			pass: true,
			want: func(t *testing.T, cfg Configuration) {
				assert.Equal(t, "opc", cfg.Strip.Chip)
				assert.Equal(t, 3, cfg.Strip.OPCChannel)
				assert.Equal(t, "/etc/ledbeat.yaml", cfg.Scene)
			},
		},
		{
			name: "flags override environment",
			env:  map[string]string{"LEDBEAT_PIXELS": "10"},
			args: []string{"--pixels", "20"},
			pass: true,
			want: func(t *testing.T, cfg Configuration) {
				assert.Equal(t, 20, cfg.Strip.Pixels)
			},
		},
		{name: "unknown chip", args: []string{"--ledchip", "ws281x"}},
		{name: "unknown debug mode", args: []string{"--debug", "loud"}},
		{name: "bad pixels", args: []string{"--pixels", "0"}},
		{name: "bad channel", args: []string{"--opc-channel", "256"}},
		{name: "bad tick", args: []string{"--tick", "0s"}},
		{name: "bad environment", env: map[string]string{"LEDBEAT_PIXELS": "lots"}},
		{name: "unknown flag", args: []string{"--port", "24601"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := GetConfigFromArgs(tt.args)
			if !tt.pass {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}
