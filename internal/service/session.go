package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/cache"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/camera"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/haptics"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionTokenTTL  = 12 * time.Hour
	sessionTokenType = "session"
	sessionIssuer    = "wallet-bfa"
)

var errSessionClosed = &domain.ErrUnauthorized{Message: "session closed"}

// Session is one device: its navigation controller plus the device-side
// capabilities the controller drives.
type Session struct {
	ID         string
	Controller *Controller
	Feed       *camera.Feed
	// Haptics is nil when vibration is disabled.
	Haptics *haptics.Signal
}

// SessionClaims are carried by the bearer token handed to the device.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

// SessionConfig configures the session manager.
type SessionConfig struct {
	Secret     []byte
	IdleTTL    time.Duration
	Haptics    bool
	Controller ControllerConfig
}

// SessionManager creates device sessions and expires idle ones. An
// expired or ended session has its controller closed, which releases the
// camera and cancels pending work.
type SessionManager struct {
	cfg      SessionConfig
	sessions *cache.InMemory[*Session]
	detector port.BarcodeDetector
	resolver port.PayeeResolver
	insight  port.InsightGenerator
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSessionManager creates the manager. detector is nil when barcode
// detection is not available on this deployment.
func NewSessionManager(
	cfg SessionConfig,
	detector port.BarcodeDetector,
	resolver port.PayeeResolver,
	insight port.InsightGenerator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SessionManager {
	m := &SessionManager{
		cfg:      cfg,
		detector: detector,
		resolver: resolver,
		insight:  insight,
		metrics:  metrics,
		logger:   logger,
	}
	m.sessions = cache.New[*Session](cfg.IdleTTL, cache.WithEvictionHook(m.evict))
	return m
}

// Create opens a new session and returns it with its bearer token.
func (m *SessionManager) Create(ctx context.Context) (*Session, string, error) {
	_, span := tracer.Start(ctx, "SessionManager.Create")
	defer span.End()

	id := uuid.NewString()
	token, err := m.sign(id)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	sess := &Session{ID: id, Feed: camera.NewFeed()}
	devices := Devices{Camera: sess.Feed, Detector: m.detector}
	if m.cfg.Haptics {
		sess.Haptics = haptics.NewSignal()
		devices.Haptics = sess.Haptics
	}
	sess.Controller = NewController(m.cfg.Controller, devices, m.resolver, m.insight, m.metrics,
		m.logger.With(zap.String("session_id", id)))

	m.sessions.Set(id, sess)
	m.metrics.SessionOpened()
	m.logger.Info("session created", zap.String("session_id", id))
	return sess, token, nil
}

// Lookup validates a bearer token and returns its live session.
func (m *SessionManager) Lookup(tokenString string) (*Session, error) {
	claims, err := m.validate(tokenString)
	if err != nil {
		return nil, err
	}
	sess, ok := m.sessions.Get(claims.SessionID)
	if !ok {
		return nil, &domain.ErrUnauthorized{Message: "session expired"}
	}
	return sess, nil
}

// End closes a session immediately.
func (m *SessionManager) End(id string) {
	m.sessions.Delete(id)
}

// Count returns the number of sessions held in memory.
func (m *SessionManager) Count() int {
	return m.sessions.Len()
}

// Close ends every session.
func (m *SessionManager) Close() {
	m.sessions.Close()
}

func (m *SessionManager) evict(id string, sess *Session) {
	sess.Controller.Close()
	m.metrics.SessionClosed()
	m.logger.Info("session closed", zap.String("session_id", id))
}

func (m *SessionManager) sign(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		Type:      sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
			Issuer:    sessionIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.cfg.Secret)
}

func (m *SessionManager) validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.cfg.Secret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Type != sessionTokenType {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}
	return claims, nil
}

// BarcodeDetection reports whether scanner sessions get a native detector.
func (m *SessionManager) BarcodeDetection() bool {
	return m.detector != nil
}
