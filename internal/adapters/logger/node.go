package logger

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnv names the environment variable selecting the log format.
// "json" enables JSON lines; anything else keeps the pretty format. Build
// programs using the library have no --json flag, so this is their switch.
const FormatEnv = "NOB_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return fromEnv(), nil
		},
	})
}

func fromEnv() *Logger {
	lg := New().(*Logger)
	if strings.EqualFold(strings.TrimSpace(os.Getenv(FormatEnv)), "json") {
		lg.SetJSON(true)
	}
	return lg
}
