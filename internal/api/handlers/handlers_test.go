package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/ipqs"
	"github.com/cartshield/cartshield/internal/models"
	"github.com/cartshield/cartshield/internal/services"
)

type testEnv struct {
	db       *gorm.DB
	settings *services.SettingsService
	orders   *services.OrderService
	reports  *services.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FraudSettings{},
		&models.Customer{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
		&models.OrderAttribute{},
		&models.FraudDecision{},
		&models.Notification{},
		&models.NotificationProvider{},
	))

	return &testEnv{
		db:       db,
		settings: services.NewSettingsService(db),
		orders:   services.NewOrderService(db),
		reports:  services.NewReportService(db),
	}
}

// newEngine builds a fraud engine whose provider calls hit the given stub
// server.
func (e *testEnv) newEngine(providerURL string) *fraud.Engine {
	client := ipqs.NewClient("test-key", ipqs.WithBaseURL(providerURL))
	return fraud.NewEngine(client, e.orders, e.reports, nil)
}

func (e *testEnv) seedOrder(t *testing.T) *models.Order {
	t.Helper()

	customer := &models.Customer{Email: "buyer@example.com", Username: "buyer", LanguageCode: "en"}
	require.NoError(t, e.db.Create(customer).Error)

	billing := &models.Address{FirstName: "Max", CountryISOCode: "DE"}
	require.NoError(t, e.db.Create(billing).Error)

	order := &models.Order{
		CustomerID:       customer.ID,
		BillingAddressID: billing.ID,
		StatusID:         models.OrderStatusPending,
		OrderTotal:       120,
	}
	require.NoError(t, e.db.Create(order).Error)
	require.NoError(t, e.db.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1}).Error)

	return order
}

func stubProvider(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}
