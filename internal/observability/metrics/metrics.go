package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ltline_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	statusChanges    *prometheus.CounterVec
	faultSimulations prometheus.Counter
	csvExports       prometheus.Counter
	providerLoads    *prometheus.CounterVec
	wsClients        prometheus.Gauge
)

// Init реєструє метрики сервісу. Повторні виклики ігноруються
func Init() {
	registerOnce.Do(func() {
		statusChanges = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_changes_total",
				Help: "Total line status changes by new status",
			},
			[]string{"status"},
		)
		faultSimulations = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "fault_simulations_total",
				Help: "Total simulated faults applied",
			},
		)
		csvExports = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "csv_exports_total",
				Help: "Total CSV report downloads",
			},
		)
		providerLoads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "map_provider_loads_total",
				Help: "Total map provider load attempts by result",
			},
			[]string{"result"},
		)
		wsClients = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "ws_clients",
				Help: "Currently connected dashboard websocket clients",
			},
		)

		prometheus.MustRegister(
			statusChanges,
			faultSimulations,
			csvExports,
			providerLoads,
			wsClients,
		)
	})
}

// IncStatusChange фіксує зміну статусу лінії
func IncStatusChange(status string) {
	if statusChanges != nil {
		statusChanges.WithLabelValues(status).Inc()
	}
}

// IncFaultSimulation фіксує застосовану симуляцію аварії
func IncFaultSimulation() {
	if faultSimulations != nil {
		faultSimulations.Inc()
	}
}

// IncCSVExport фіксує експорт звіту
func IncCSVExport() {
	if csvExports != nil {
		csvExports.Inc()
	}
}

// IncProviderLoad фіксує спробу завантаження картографічного провайдера
func IncProviderLoad(ok bool) {
	if providerLoads == nil {
		return
	}
	result := resultSuccess
	if !ok {
		result = resultError
	}
	providerLoads.WithLabelValues(result).Inc()
}

// WSClientConnected фіксує підключення клієнта дашборда
func WSClientConnected() {
	if wsClients != nil {
		wsClients.Inc()
	}
}

// WSClientDisconnected фіксує відключення клієнта дашборда
func WSClientDisconnected() {
	if wsClients != nil {
		wsClients.Dec()
	}
}
