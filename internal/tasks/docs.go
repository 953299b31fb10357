// Package tasks defines the task envelope exchanged through the task queue, the
// payloads of every background job, and an in-process queue implementation.
//
// Tasks are routed to handlers by Type through a Dispatcher. Lanes separate
// latency sensitive cooking work (HighPriority) from delivery tracking and batch
// jobs (Default). The Runner serves both lanes inside the process; the AMQP
// adapter serves them across processes with the same envelope.
package tasks
