package realtime_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrina-api/internal/application/realtime"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// drain lee los frames pendientes sin bloquear.
func drain(c *realtime.Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case f, ok := <-c.Messages():
			if !ok {
				return frames
			}
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestBroadcast_EntregaElMismoPayloadATodos(t *testing.T) {
	hub := realtime.NewHub(4, logger.Nop())
	clients := []*realtime.Client{hub.Register(), hub.Register(), hub.Register()}

	n, err := hub.Broadcast("refreshProducts", []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var first []byte
	for _, c := range clients {
		frames := drain(c)
		require.Len(t, frames, 1)
		if first == nil {
			first = frames[0]
		}
		assert.Equal(t, first, frames[0])
	}

	var env realtime.Envelope
	require.NoError(t, json.Unmarshal(first, &env))
	assert.Equal(t, "refreshProducts", env.Event)
	assert.JSONEq(t, `[1,2]`, string(env.Data))
}

func TestBroadcast_IgnoraDesconectados(t *testing.T) {
	hub := realtime.NewHub(4, logger.Nop())
	a := hub.Register()
	b := hub.Register()
	hub.Unregister(b)
	hub.Unregister(b) // repetir no falla

	n, err := hub.Broadcast("refreshProducts", "x")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, drain(a), 1)

	_, open := <-b.Messages()
	assert.False(t, open, "el canal del desconectado queda cerrado")
}

func TestBroadcast_ExpulsaClienteLento(t *testing.T) {
	hub := realtime.NewHub(1, logger.Nop())
	slow := hub.Register()
	fast := hub.Register()

	_, err := hub.Broadcast("e", 1)
	require.NoError(t, err)
	assert.Len(t, drain(fast), 1)

	// slow no drenó: su cola (1) está llena.
	n, err := hub.Broadcast("e", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, hub.Len())

	frames := drain(slow)
	assert.Len(t, frames, 1, "conserva lo que ya tenía encolado y luego se cierra")
}

func TestRegister_IdsUnicos(t *testing.T) {
	hub := realtime.NewHub(0, logger.Nop())
	a, b := hub.Register(), hub.Register()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, hub.Len())

	hub.Close()
	assert.Equal(t, 0, hub.Len())
}
