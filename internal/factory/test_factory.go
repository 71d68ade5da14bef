package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/openplay-go/internal/dependencies/mocks"
	"github.com/mcoot/openplay-go/internal/metrics"
	"github.com/mcoot/openplay-go/internal/services/auth"
	"github.com/mcoot/openplay-go/internal/storage/memory"
	"github.com/mcoot/openplay-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.Config{BcryptCost: bcrypt.MinCost}
	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger(), metrics.NewRecorder())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
