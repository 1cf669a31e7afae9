package api

import (
	"sync"
	"time"
)

// ChannelStats aggregates delivery outcomes for a single channel
type ChannelStats struct {
	Channel   string    `json:"channel"`
	Delivered int64     `json:"delivered"`
	Failed    int64     `json:"failed"`
	Skipped   int64     `json:"skipped"`
	LastEvent time.Time `json:"lastEvent"`
}

type deliveryEvent struct {
	channel string
	outcome string
	at      time.Time
}

// DeliveryMetrics collects per-channel delivery outcomes.
// Recording is designed to NEVER block the dispatch path:
// events are queued on a buffered channel and dropped silently when
// the buffer is full. Missing a counter is acceptable; slowing down
// a notification is not.
type DeliveryMetrics struct {
	mu       sync.RWMutex
	channels map[string]*ChannelStats
	total    int64

	eventChan chan deliveryEvent
	stopChan  chan struct{}
}

// NewDeliveryMetrics creates a collector and starts its background processor
func NewDeliveryMetrics() *DeliveryMetrics {
	dm := &DeliveryMetrics{
		channels:  make(map[string]*ChannelStats),
		eventChan: make(chan deliveryEvent, 1000),
		stopChan:  make(chan struct{}),
	}
	go dm.processEvents()
	return dm
}

// RecordDispatch records a delivery outcome asynchronously (non-blocking)
func (dm *DeliveryMetrics) RecordDispatch(channel, outcome string) {
	select {
	case dm.eventChan <- deliveryEvent{channel: channel, outcome: outcome, at: time.Now()}:
	default:
		// buffer full, drop the event
	}
}

// Stop shuts down the background processor
func (dm *DeliveryMetrics) Stop() {
	close(dm.stopChan)
}

func (dm *DeliveryMetrics) processEvents() {
	for {
		select {
		case ev := <-dm.eventChan:
			dm.processEvent(ev)
		case <-dm.stopChan:
			return
		}
	}
}

func (dm *DeliveryMetrics) processEvent(ev deliveryEvent) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	stats, exists := dm.channels[ev.channel]
	if !exists {
		stats = &ChannelStats{Channel: ev.channel}
		dm.channels[ev.channel] = stats
	}

	switch ev.outcome {
	case "ok":
		stats.Delivered++
	case "failed":
		stats.Failed++
	case "skipped":
		stats.Skipped++
	}
	stats.LastEvent = ev.at
	dm.total++
}

// Summary returns a snapshot of all channel stats
func (dm *DeliveryMetrics) Summary() map[string]interface{} {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	channels := make(map[string]*ChannelStats, len(dm.channels))
	for k, v := range dm.channels {
		stats := *v
		channels[k] = &stats
	}

	return map[string]interface{}{
		"totalDispatches": dm.total,
		"channels":        channels,
	}
}
