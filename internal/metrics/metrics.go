// Package metrics declares the daemon's Prometheus collectors. Every
// name below is prefixed vpd_ and registered exactly once at package
// init via promauto, matching the convention the rest of the example
// pack's metrics packages use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsTotal counts every control session ever accepted.
	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vpd_sessions_total",
		Help: "Total number of control sessions accepted.",
	})

	// SessionsActive is the number of currently connected control
	// sessions.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vpd_sessions_active",
		Help: "Number of currently connected control sessions.",
	})

	// CommandsTotal counts dispatched commands by opcode.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vpd_commands_total",
		Help: "Total number of commands dispatched, by opcode.",
	}, []string{"opcode"})

	// CommandErrorsTotal counts ACK responses by error kind.
	CommandErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vpd_command_errors_total",
		Help: "Total number of ACK error responses, by error kind.",
	}, []string{"kind"})

	// PlayerSpawnTotal counts subprocess spawn attempts by URI scheme
	// and result.
	PlayerSpawnTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vpd_player_spawn_total",
		Help: "Total number of player subprocess spawn attempts, by scheme and result.",
	}, []string{"scheme", "result"})

	// PlayerExitTotal counts primary player process exits by class
	// ("expected" for a Stop-caused exit, "crash" for any other nonzero
	// exit). A zero exit not caused by Stop is not counted.
	PlayerExitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vpd_player_exit_total",
		Help: "Total number of primary player process exits, by code class.",
	}, []string{"code_class"})

	// PlaylistVersion mirrors the playlist's current version counter.
	PlaylistVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vpd_playlist_version",
		Help: "Current playlist version counter.",
	})

	// PlaylistLength mirrors the playlist's current item count.
	PlaylistLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vpd_playlist_length",
		Help: "Current number of items in the playlist.",
	})
)

// RecordCommand records one dispatched command and, if it ACKed, the
// error kind that caused it.
func RecordCommand(opcode string, errKind string, ok bool) {
	CommandsTotal.WithLabelValues(opcode).Inc()
	if !ok {
		CommandErrorsTotal.WithLabelValues(errKind).Inc()
	}
}

// RecordSpawn records one subprocess spawn attempt's result for the
// given URI scheme.
func RecordSpawn(scheme string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PlayerSpawnTotal.WithLabelValues(scheme, result).Inc()
}

// RecordPlayerExit records one primary player exit, classified as
// "expected" (caused by Stop) or "crash".
func RecordPlayerExit(expected bool) {
	class := "crash"
	if expected {
		class = "expected"
	}
	PlayerExitTotal.WithLabelValues(class).Inc()
}
