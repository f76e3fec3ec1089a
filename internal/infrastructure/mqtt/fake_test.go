package mqtt

import (
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken is a completed paho token.
type fakeToken struct {
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool { return !t.timeout }

func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.timeout {
		close(ch)
	}
	return ch
}

func (t *fakeToken) Error() error { return t.err }

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
	qos     byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return m.qos }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// fakePaho is a pahomqtt.Client that never touches the network.
type fakePaho struct {
	mu           sync.Mutex
	opts         *pahomqtt.ClientOptions
	connected    bool
	connectErr   error
	subscribeErr error
	handlers     map[string]pahomqtt.MessageHandler
	disconnects  int
	unsubscribed []string
	published    []string
}

func (f *fakePaho) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePaho) IsConnectionOpen() bool { return f.IsConnected() }

func (f *fakePaho) Connect() pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return &fakeToken{err: f.connectErr}
	}
	f.connected = true
	return &fakeToken{}
}

func (f *fakePaho) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnects++
}

func (f *fakePaho) Publish(topic string, _ byte, _ bool, _ interface{}) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, topic)
	return &fakeToken{}
}

func (f *fakePaho) Subscribe(topic string, _ byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return &fakeToken{err: f.subscribeErr}
	}
	if f.handlers == nil {
		f.handlers = make(map[string]pahomqtt.MessageHandler)
	}
	f.handlers[topic] = callback
	return &fakeToken{}
}

func (f *fakePaho) SubscribeMultiple(map[string]byte, pahomqtt.MessageHandler) pahomqtt.Token {
	return &fakeToken{}
}

func (f *fakePaho) Unsubscribe(topics ...string) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topics...)
	for _, t := range topics {
		delete(f.handlers, t)
	}
	return &fakeToken{}
}

func (f *fakePaho) AddRoute(string, pahomqtt.MessageHandler) {}

func (f *fakePaho) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.ClientOptionsReader{}
}

// deliver invokes the subscription handler as paho's router would.
func (f *fakePaho) deliver(topic, payload string) {
	f.mu.Lock()
	h := f.handlers[topic]
	f.mu.Unlock()
	h(f, &fakeMessage{topic: topic, payload: []byte(payload), qos: 1})
}

// lose simulates a broken connection.
func (f *fakePaho) lose(err error) {
	f.mu.Lock()
	f.connected = false
	lost := f.opts.OnConnectionLost
	f.mu.Unlock()
	lost(f, err)
}

// fakeFactory records every paho client the Client creates.
type fakeFactory struct {
	mu         sync.Mutex
	clients    []*fakePaho
	connectErr error
}

func (ff *fakeFactory) newClient(opts *pahomqtt.ClientOptions) pahomqtt.Client {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	fp := &fakePaho{opts: opts, connectErr: ff.connectErr}
	ff.clients = append(ff.clients, fp)
	return fp
}

func (ff *fakeFactory) last() *fakePaho {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return ff.clients[len(ff.clients)-1]
}
