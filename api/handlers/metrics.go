package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fynans/fynans-api/api"
)

// Metrics exported for testing purposes
type Metrics struct {
	Collector *api.DeliveryMetrics
}

// DeliveriesHandler returns the per-channel delivery outcome counters
func (m Metrics) DeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(m.Collector.Summary())
}
