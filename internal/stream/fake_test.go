package stream

import (
	"sync"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// fakeTransport is a scripted pubsub.Transport that records every call.
type fakeTransport struct {
	mu        sync.Mutex
	calls     []string
	connected bool
	opts      pubsub.ConnectOptions

	connectErr     error
	subscribeErrs  []error // consumed one per Subscribe call
	reconnectErr   error
	unsubscribeErr error
	disconnectErr  error

	deliveries chan *pubsub.Message
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{deliveries: make(chan *pubsub.Message, 16)}
}

func (f *fakeTransport) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeTransport) Connect(opts pubsub.ConnectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("connect")
	f.opts = opts
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeTransport) Subscribe(topic string, _ byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("subscribe:" + topic)
	if len(f.subscribeErrs) > 0 {
		err := f.subscribeErrs[0]
		f.subscribeErrs = f.subscribeErrs[1:]
		return err
	}
	return nil
}

func (f *fakeTransport) Unsubscribe(topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("unsubscribe:" + topic)
	return f.unsubscribeErr
}

func (f *fakeTransport) Reconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("reconnect")
	if f.reconnectErr != nil {
		f.connected = false
		return f.reconnectErr
	}
	f.connected = true
	return nil
}

func (f *fakeTransport) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("disconnect")
	f.connected = false
	return f.disconnectErr
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) Deliveries() <-chan *pubsub.Message {
	return f.deliveries
}

// publish queues a message for the consumer.
func (f *fakeTransport) publish(topic, payload string) {
	f.deliveries <- &pubsub.Message{Topic: topic, Payload: []byte(payload), QoS: pubsub.AtLeastOnce}
}

// drop marks the connection lost and queues the loss signal.
func (f *fakeTransport) drop() {
	f.mu.Lock()
	f.connected = false
	f.mu.Unlock()
	f.deliveries <- nil
}

func (f *fakeTransport) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTransport) count(call string) int {
	n := 0
	for _, c := range f.recorded() {
		if c == call {
			n++
		}
	}
	return n
}

// recordingObserver captures observer events.
type recordingObserver struct {
	mu         sync.Mutex
	states     []State
	delivered  int
	reconnects []error
}

func (o *recordingObserver) StateChanged(_, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, to)
}

func (o *recordingObserver) MessageDelivered(pubsub.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered++
}

func (o *recordingObserver) Reconnected(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reconnects = append(o.reconnects, err)
}

func (o *recordingObserver) transitions() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]State(nil), o.states...)
}
