// Package orderevents publishes committed order changes to kafka.
//
// Every message is a JSON envelope {type, occurred_at, payload} keyed by the
// order id. The event type is repeated in the "event_type" header.
package orderevents
