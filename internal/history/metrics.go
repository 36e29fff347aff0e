package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsPushedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planform_history_commands_pushed_total",
		Help: "Total number of commands pushed onto an undo stack",
	})

	commandsEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planform_history_commands_evicted_total",
		Help: "Commands dropped from the bottom of a full undo stack",
	})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planform_history_steps_total",
		Help: "Undo and redo steps by outcome",
	}, []string{"direction", "outcome"})
)
