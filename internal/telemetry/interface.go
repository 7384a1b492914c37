package telemetry

// Transport forwards one telemetry line to wherever readings are
// streamed. Implementations live outside the core; the streamer treats
// failures as non-fatal.
type Transport interface {
	Send(line string) error
}
