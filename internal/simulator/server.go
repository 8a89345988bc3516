package simulator

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netauto/iosxecfg/internal/logging"
	"go.uber.org/zap"
)

// Config holds the simulator server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // Path to certificate file (empty = generate a self-signed one)
	KeyPath  string
	Hostname string // Initial device hostname
	Username string
	Password string
	APIRoot  string
	Latency  time.Duration
	LogLevel string
}

// Server is a TLS listener serving one emulated switch
type Server struct {
	config   *Config
	handler  *Handler
	http     *http.Server
	listener net.Listener
}

// New creates a server; it does not listen until Start or Listen is called
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var tlsConfig *tls.Config
	var err error

	if config.CertPath == "" && config.KeyPath == "" {
		params := DefaultCertParams()
		if config.Host != "" {
			params.Hosts = append(params.Hosts, config.Host)
		}
		certPEM, keyPEM, genErr := GenerateSelfSignedCert(params)
		if genErr != nil {
			return nil, fmt.Errorf("failed to generate certificate: %w", genErr)
		}
		tlsConfig, err = NewTLSConfigFromMemory(certPEM, keyPEM)
		logging.Info("Using auto-generated self-signed certificate (in-memory)")
	} else {
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS config: %w", err)
	}

	hostname := config.Hostname
	if hostname == "" {
		hostname = "Switch"
	}

	handler := NewHandler(NewDevice(hostname), HandlerOptions{
		Username: config.Username,
		Password: config.Password,
		APIRoot:  config.APIRoot,
		Latency:  config.Latency,
	})

	return &Server{
		config:  config,
		handler: handler,
		http: &http.Server{
			Handler:           handler,
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the RESTCONF handler, for fault injection
func (s *Server) Handler() *Handler {
	return s.handler
}

// Listen binds the TLS listener and serves in the background.
// It returns the bound address.
func (s *Server) Listen() (string, error) {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	ln, err := tls.Listen("tcp", addr, s.http.TLSConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create TLS listener: %w", err)
	}
	s.listener = ln

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Simulator stopped", zap.Error(err))
		}
	}()

	logging.Info("Simulator listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("hostname", s.handler.Device().Hostname()))

	return ln.Addr().String(), nil
}

// Start listens and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	fmt.Printf("Emulated switch listening on https://%s%s/data/\n", addr, s.handler.opts.APIRoot)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logging.Info("Shutdown signal received, stopping simulator...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
