package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

//thanks to https://github.com/paul-milne/zap-loki

type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {

	// TenantValue is the value associated with the tenant for multi-tenant systems.
	// It is optional. If not provided, the request will not include a tenant header.
	TenantValue string

	// TenantKey is the key used to specify the tenant in the request headers.
	// It is optional. If not provided, the request will not include a tenant header.
	TenantKey string

	// Url of the loki server, e.g. https://example-prod.grafana.net/loki/api/v1/push
	Url string `validate:"required,url"`

	// BatchMaxSize is the maximum number of log lines that are sent in one request
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is the maximum time to wait before sending a request
	BatchMaxWait time.Duration `validate:"gte=1"`

	// Labels that are added to all log lines
	Labels map[string]string

	// Username and Password enable basic authentication when both are set.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type Pusher struct {
	config    *Config
	ctx       context.Context
	cancel    context.CancelFunc
	client    *http.Client
	quit      chan struct{}
	stopOnce  sync.Once
	entry     chan LogEntry
	waitGroup sync.WaitGroup
	logsBatch []streamValue
	logger    Logger
}

type LogEntry struct {
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Caller    string `json:"caller,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

type lokiPushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values []streamValue     `json:"values"`
}

type streamValue []string

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:    &cfg,
		ctx:       ctx,
		cancel:    cancel,
		client:    &http.Client{Timeout: 10 * time.Second},
		quit:      make(chan struct{}),
		entry:     make(chan LogEntry, cfg.BatchMaxSize),
		logsBatch: make([]streamValue, 0, cfg.BatchMaxSize),
		logger:    logger,
	}

	p.waitGroup.Add(1)
	go p.run()
	return p, nil
}

// Push queues an entry for the next batch. It returns an error once the pusher is stopped.
func (p *Pusher) Push(e LogEntry) error {
	select {
	case <-p.quit:
		return fmt.Errorf("loki pusher is stopped")
	default:
	}

	select {
	case <-p.quit:
		return fmt.Errorf("loki pusher is stopped")
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.entry <- e:
		return nil
	}
}

// Stop flushes pending entries and stops the pusher.
func (p *Pusher) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		p.waitGroup.Wait()
		p.cancel()
	})
}

func (p *Pusher) run() {
	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()

	trySendBatch := func() {
		err := p.send()
		if err != nil {
			p.logger.Error("failed to send logs", "error", err)
		}
		p.logsBatch = p.logsBatch[:0]
	}

	defer func() {
		for {
			select {
			case entry := <-p.entry:
				p.logsBatch = append(p.logsBatch, newLog(entry))
				continue
			default:
			}
			break
		}
		if len(p.logsBatch) > 0 {
			trySendBatch()
		}

		p.waitGroup.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.quit:
			return
		case entry := <-p.entry:
			p.logsBatch = append(p.logsBatch, newLog(entry))
			if len(p.logsBatch) >= p.config.BatchMaxSize {
				trySendBatch()
			}
		case <-ticker.C:
			if len(p.logsBatch) > 0 {
				trySendBatch()
			}
		}
	}
}

func newLog(entry LogEntry) streamValue {
	entryJson, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return []string{timestamp, string(entryJson)}
}

func (p *Pusher) send() error {
	buf := bytes.NewBuffer([]byte{})
	gz := gzip.NewWriter(buf)

	if err := json.NewEncoder(gz).Encode(lokiPushRequest{Streams: []stream{{
		Stream: p.config.Labels,
		Values: p.logsBatch,
	}}}); err != nil {
		return err
	}

	if err := gz.Close(); err != nil {
		return err
	}

	// the pusher context may already be cancelled while flushing on shutdown
	req, err := http.NewRequestWithContext(context.WithoutCancel(p.ctx), http.MethodPost, p.config.Url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	if len(p.config.TenantKey) > 0 {
		req.Header.Set(p.config.TenantKey, p.config.TenantValue)
	}

	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("received unexpected response code from Loki: %s, body: %s", resp.Status, string(body))
	}

	return nil
}
