package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedSize int

func (f fixedSize) Size() (int, error) { return int(f), nil }

func probe(err error) Probe {
	return func(context.Context) error { return err }
}

func TestRefresh(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name   string
		checks []Check
		online bool
	}{
		{"all healthy", []Check{{Name: "store", Probe: probe(nil)}, {Name: "redis", Probe: probe(nil)}}, true},
		{"optional failure", []Check{{Name: "store", Probe: probe(nil)}, {Name: "redis", Probe: probe(down), Optional: true}}, true},
		{"required failure", []Check{{Name: "store", Probe: probe(down)}}, false},
		{"missing probe", []Check{{Name: "store"}}, false},
		{"no checks", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.checks, fixedSize(4), 0, nil)
			status := m.Refresh(context.Background())
			assert.Equal(t, tt.online, status.Online)
			assert.Equal(t, tt.online, m.IsOnline())
			assert.True(t, status.Buffer)
			assert.Equal(t, 4, status.BufferSize)
			assert.Len(t, m.GetStatus().Components, len(tt.checks))
		})
	}
}

func TestStatusIsCopied(t *testing.T) {
	m := New([]Check{{Name: "store", Probe: probe(nil)}}, nil, 0, nil)
	m.Refresh(context.Background())

	status := m.GetStatus()
	status.Components["store"] = false
	assert.True(t, m.GetStatus().Components["store"])
	assert.False(t, status.Buffer)

	m.Stop()
	m.Stop()
}
