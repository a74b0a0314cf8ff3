// Package metrics defines and registers all custom Prometheus metrics for the
// employee manager API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employee_manager"

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsRequestedTotal counts recover-password calls that produced a
// reset link. Requests for unknown addresses are not counted.
var PasswordResetsRequestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_requested_total",
		Help:      "Total number of password reset links sent.",
	},
)

// PasswordResetsConsumedTotal counts reset links used to set a new password.
var PasswordResetsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_consumed_total",
		Help:      "Total number of password reset links consumed.",
	},
)

// EmployeesCreatedTotal counts employees created through the API.
// Label:
//   - role: the role of the creator
var EmployeesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employees_created_total",
		Help:      "Total number of employees created, by creator role.",
	},
	[]string{"role"},
)

// MailFailuresTotal counts outgoing messages the gateway rejected.
// Label:
//   - kind: "reset" or "contact"
var MailFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Total number of e-mails that could not be delivered, by kind.",
	},
	[]string{"kind"},
)

// RecordsWrittenTotal counts project and task writes.
// Labels:
//   - kind: "projects" or "tasks"
//   - op: "create", "update" or "delete"
var RecordsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_written_total",
		Help:      "Total number of project and task writes, by kind and operation.",
	},
	[]string{"kind", "op"},
)
