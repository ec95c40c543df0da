package fraud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartshield/cartshield/internal/ipqs"
	"github.com/cartshield/cartshield/internal/models"
)

type fakeAPI struct {
	ipResp    *ipqs.IPReputationResponse
	ipErr     error
	ipQuery   *ipqs.Query
	ipAddress string

	emailResp  *ipqs.EmailReputationResponse
	emailErr   error
	emailQuery *ipqs.Query
	emailAddr  string

	postbackResp  *ipqs.PostbackResponse
	postbackErr   error
	postbackQuery *ipqs.Query
}

func (f *fakeAPI) GetIPReputation(_ context.Context, ip string, query *ipqs.Query) (*ipqs.IPReputationResponse, error) {
	f.ipAddress = ip
	f.ipQuery = query
	return f.ipResp, f.ipErr
}

func (f *fakeAPI) GetEmailReputation(_ context.Context, email string, query *ipqs.Query) (*ipqs.EmailReputationResponse, error) {
	f.emailAddr = email
	f.emailQuery = query
	return f.emailResp, f.emailErr
}

func (f *fakeAPI) LookupRequest(_ context.Context, query *ipqs.Query) (*ipqs.PostbackResponse, error) {
	f.postbackQuery = query
	return f.postbackResp, f.postbackErr
}

type fakeOrderStore struct {
	customer *models.Customer
	billing  *models.Address
	shipping *models.Address
	items    []models.OrderItem

	statusSet int
	notes     []*models.OrderNote
}

func (f *fakeOrderStore) CustomerByID(uint) (*models.Customer, error) {
	if f.customer == nil {
		return nil, errors.New("customer not found")
	}
	return f.customer, nil
}

func (f *fakeOrderStore) AddressByID(id uint) (*models.Address, error) {
	if f.billing != nil && f.billing.ID == id {
		return f.billing, nil
	}
	if f.shipping != nil && f.shipping.ID == id {
		return f.shipping, nil
	}
	return nil, errors.New("address not found")
}

func (f *fakeOrderStore) OrderItems(uint) ([]models.OrderItem, error) {
	return f.items, nil
}

func (f *fakeOrderStore) SetOrderStatus(order *models.Order, statusID int) error {
	order.StatusID = statusID
	f.statusSet = statusID
	return nil
}

func (f *fakeOrderStore) InsertOrderNote(note *models.OrderNote) error {
	f.notes = append(f.notes, note)
	return nil
}

type fakeReportStore struct {
	orderID uint
	report  *models.OrderFraudReport
}

func (f *fakeReportStore) SaveReport(orderID uint, report *models.OrderFraudReport) error {
	f.orderID = orderID
	f.report = report
	return nil
}

type fakeNotifier struct {
	rejected []string
}

func (f *fakeNotifier) OrderRejected(_ *models.Order, statusName string) {
	f.rejected = append(f.rejected, statusName)
}

func eligibleContext() *RequestContext {
	return &RequestContext{
		Method:       "GET",
		RouteName:    "Login",
		ClientIP:     "203.0.113.7",
		UserAgent:    "Mozilla/5.0",
		LanguageCode: "en",
		PluginActive: true,
	}
}

func newTestEngine(api *fakeAPI, orders *fakeOrderStore, reports *fakeReportStore) *Engine {
	if api == nil {
		api = &fakeAPI{}
	}
	if orders == nil {
		orders = &fakeOrderStore{}
	}
	if reports == nil {
		reports = &fakeReportStore{}
	}
	return NewEngine(api, orders, reports, nil)
}

func TestCanValidateIPReputation_EligibleRequest(t *testing.T) {
	e := newTestEngine(nil, nil, nil)

	assert.True(t, e.CanValidateIPReputation(validSettings(), eligibleContext()))
}

func TestCanValidateIPReputation_Gates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *models.FraudSettings, rc *RequestContext)
	}{
		{"admin area", func(s *models.FraudSettings, rc *RequestContext) { rc.AdminArea = true }},
		{"prevent fraud route", func(s *models.FraudSettings, rc *RequestContext) { rc.RouteName = PreventFraudRouteName }},
		{"empty ip", func(s *models.FraudSettings, rc *RequestContext) { rc.ClientIP = "" }},
		{"loopback ip", func(s *models.FraudSettings, rc *RequestContext) { rc.ClientIP = "127.0.0.1" }},
		{"plugin inactive", func(s *models.FraudSettings, rc *RequestContext) { rc.PluginActive = false }},
		{"admin user", func(s *models.FraudSettings, rc *RequestContext) { rc.IsAdmin = true }},
		{"invalid settings", func(s *models.FraudSettings, rc *RequestContext) { s.ApiKey = "" }},
		{"feature disabled", func(s *models.FraudSettings, rc *RequestContext) { s.IPReputationEnabled = false }},
		{"system account not a crawler", func(s *models.FraudSettings, rc *RequestContext) { rc.IsSystemAccount = true }},
		{"crawler allowed", func(s *models.FraudSettings, rc *RequestContext) {
			rc.IsSystemAccount = true
			rc.IsSearchEngine = true
			s.AllowCrawlers = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(nil, nil, nil)
			s := validSettings()
			rc := eligibleContext()
			tt.setup(s, rc)

			assert.False(t, e.CanValidateIPReputation(s, rc))
		})
	}
}

func TestCanValidateIPReputation_CrawlerScoredWhenNotAllowed(t *testing.T) {
	e := newTestEngine(nil, nil, nil)
	s := validSettings()
	rc := eligibleContext()
	rc.IsSystemAccount = true
	rc.IsSearchEngine = true

	assert.True(t, e.CanValidateIPReputation(s, rc))
}

func TestCanValidateIPReputation_RouteGroupScoping(t *testing.T) {
	e := newTestEngine(nil, nil, nil)
	s := validSettings()
	s.IPQualityGroups = "customer"

	rc := eligibleContext()
	rc.RouteName = "Login"
	assert.True(t, e.CanValidateIPReputation(s, rc))

	rc.RouteName = "ShoppingCart"
	assert.False(t, e.CanValidateIPReputation(s, rc))

	s.IPQualityGroups = "customer, checkout"
	assert.True(t, e.CanValidateIPReputation(s, rc))

	// empty selection means every public page
	s.IPQualityGroups = ""
	rc.RouteName = "SomeLandingPage"
	assert.True(t, e.CanValidateIPReputation(s, rc))
}

func TestValidateRequest_BuildsQueryAndAccepts(t *testing.T) {
	api := &fakeAPI{ipResp: okIPResponse(10)}
	e := newTestEngine(api, nil, nil)

	s := validSettings()
	s.AllowPublicAccessPoints = true
	rc := eligibleContext()
	rc.IsMobile = true

	ok, err := e.ValidateRequest(context.Background(), s, rc)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.7", api.ipAddress)
	assert.Equal(t, "true", api.ipQuery.Get("mobile"))
	assert.Equal(t, "1", api.ipQuery.Get("strictness"))
	assert.Equal(t, "true", api.ipQuery.Get("allow_public_access_points"))
	assert.Equal(t, "false", api.ipQuery.Get("lighter_penalties"))
	assert.Equal(t, "en", api.ipQuery.Get("user_language"))
	assert.Equal(t, "Mozilla/5.0", api.ipQuery.Get("user_agent"))
}

func TestValidateRequest_UserAgentOmittedWhenEmpty(t *testing.T) {
	api := &fakeAPI{ipResp: okIPResponse(10)}
	e := newTestEngine(api, nil, nil)

	rc := eligibleContext()
	rc.UserAgent = ""

	_, err := e.ValidateRequest(context.Background(), validSettings(), rc)

	require.NoError(t, err)
	assert.Equal(t, "", api.ipQuery.Get("user_agent"))
	assert.Equal(t, 5, api.ipQuery.Len())
}

func TestValidateRequest_ProviderFailureFailsOpen(t *testing.T) {
	api := &fakeAPI{ipErr: &ipqs.APIError{Status: http.StatusBadGateway, Op: "GetIPReputation"}}
	e := newTestEngine(api, nil, nil)

	ok, err := e.ValidateRequest(context.Background(), validSettings(), eligibleContext())

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateRequest_DecodeDefectPropagates(t *testing.T) {
	api := &fakeAPI{ipErr: errors.New("ipqs: decode GetIPReputation response: unexpected token")}
	e := newTestEngine(api, nil, nil)

	_, err := e.ValidateRequest(context.Background(), validSettings(), eligibleContext())

	assert.Error(t, err)
}

func TestValidate_NilArgumentsSurface(t *testing.T) {
	e := newTestEngine(&fakeAPI{ipResp: okIPResponse(10)}, nil, nil)
	s := validSettings()

	_, err := e.ValidateRequest(context.Background(), nil, eligibleContext())
	assert.ErrorIs(t, err, ErrNilSettings)

	_, err = e.ValidateRequest(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrNilContext)

	_, err = e.ValidateEmail(context.Background(), nil, eligibleContext())
	assert.ErrorIs(t, err, ErrNilSettings)

	_, err = e.ValidateEmail(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrNilContext)

	_, _, err = e.ValidateOrder(context.Background(), s, nil, &models.Order{ID: 1})
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestCanValidateOrder(t *testing.T) {
	e := newTestEngine(nil, nil, nil)
	s := validSettings()
	rc := eligibleContext()

	ok, err := e.CanValidateOrder(s, rc, &models.Order{ID: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	s.OrderScoringEnabled = false
	ok, err = e.CanValidateOrder(s, rc, &models.Order{ID: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.CanValidateOrder(s, rc, nil)
	assert.ErrorIs(t, err, ErrNilOrder)
}

func testOrderFixtures() (*fakeOrderStore, *models.Order) {
	shippingID := uint(21)
	orders := &fakeOrderStore{
		customer: &models.Customer{ID: 5, Email: "buyer@example.com", Username: "buyer", LanguageCode: "de"},
		billing: &models.Address{
			ID: 20, FirstName: "Max", LastName: "Mustermann", Company: "ACME",
			CountryISOCode: "DE", Address1: "Hauptstr. 1", City: "Berlin",
			Region: "Berlin", Postcode: "10115", Email: "buyer@example.com", Phone: "+49 30 1234",
		},
		shipping: &models.Address{ID: 21, FirstName: "Erika", CountryISOCode: "DE"},
		items: []models.OrderItem{
			{OrderID: 9, ProductID: 1, Quantity: 2},
			{OrderID: 9, ProductID: 2, Quantity: 1},
		},
	}
	order := &models.Order{
		ID:                9,
		CustomerID:        5,
		BillingAddressID:  20,
		ShippingAddressID: &shippingID,
		StatusID:          models.OrderStatusPending,
		OrderTotal:        199.9,
	}
	return orders, order
}

func TestValidateOrder_BuildsTransactionQueryAndSavesReport(t *testing.T) {
	riskScore := 33.0
	api := &fakeAPI{ipResp: okIPResponse(10)}
	api.ipResp.TransactionDetails = &ipqs.TransactionDetails{
		RiskScore:           riskScore,
		ValidBillingEmail:   boolPtr(true),
		ValidShippingPhone:  boolPtr(false),
		ValidBillingAddress: boolPtr(true),
	}
	orders, order := testOrderFixtures()
	reports := &fakeReportStore{}
	e := newTestEngine(api, orders, reports)

	ok, report, err := e.ValidateOrder(context.Background(), validSettings(), eligibleContext(), order)

	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, report)
	assert.Equal(t, riskScore, report.PaymentRiskScore)

	q := api.ipQuery
	assert.Equal(t, "de", q.Get("user_language"))
	assert.Equal(t, "Max", q.Get("billing_first_name"))
	assert.Equal(t, "DE", q.Get("billing_country"))
	assert.Equal(t, "10115", q.Get("billing_postcode"))
	assert.Equal(t, "Erika", q.Get("shipping_first_name"))
	assert.Equal(t, "buyer", q.Get("username"))
	assert.Equal(t, "199.90", q.Get("order_amount"))
	assert.Equal(t, "3", q.Get("order_quantity"))

	require.NotNil(t, reports.report)
	assert.Equal(t, uint(9), reports.orderID)
	assert.Equal(t, riskScore, reports.report.PaymentRiskScore)
	require.NotNil(t, reports.report.ValidBillingEmail)
	assert.True(t, *reports.report.ValidBillingEmail)
	require.NotNil(t, reports.report.ValidShippingPhone)
	assert.False(t, *reports.report.ValidShippingPhone)
	assert.Nil(t, reports.report.ValidShippingEmail)
	assert.Nil(t, reports.report.DeviceFingerprintRiskScore)
}

func TestValidateOrder_SkipsShippingForPickupInStore(t *testing.T) {
	api := &fakeAPI{ipResp: okIPResponse(10)}
	orders, order := testOrderFixtures()
	order.PickupInStore = true
	e := newTestEngine(api, orders, &fakeReportStore{})

	_, _, err := e.ValidateOrder(context.Background(), validSettings(), eligibleContext(), order)

	require.NoError(t, err)
	assert.Equal(t, "", api.ipQuery.Get("shipping_first_name"))
	assert.Equal(t, "Max", api.ipQuery.Get("billing_first_name"))
}

func TestValidateOrder_RiskScoreAtThresholdRejects(t *testing.T) {
	api := &fakeAPI{ipResp: okIPResponse(10)}
	api.ipResp.TransactionDetails = &ipqs.TransactionDetails{RiskScore: 90}
	orders, order := testOrderFixtures()
	e := newTestEngine(api, orders, &fakeReportStore{})

	ok, _, err := e.ValidateOrder(context.Background(), validSettings(), eligibleContext(), order)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateOrder_DeviceLookupEnrichesReport(t *testing.T) {
	api := &fakeAPI{
		ipResp:       okIPResponse(10),
		postbackResp: &ipqs.PostbackResponse{Response: ipqs.Response{Success: true}, FraudChance: 61.5},
	}
	orders, order := testOrderFixtures()
	reports := &fakeReportStore{}
	e := newTestEngine(api, orders, reports)

	s := validSettings()
	s.DeviceTrackingVariableName = "userID"
	rc := eligibleContext()
	rc.CustomerID = 5

	_, _, err := e.ValidateOrder(context.Background(), s, rc, order)

	require.NoError(t, err)
	require.NotNil(t, api.postbackQuery)
	assert.Equal(t, "5", api.postbackQuery.Get("userID"))
	assert.Equal(t, "devicetracker", api.postbackQuery.Get("type"))
	require.NotNil(t, reports.report.DeviceFingerprintRiskScore)
	assert.Equal(t, 61.5, *reports.report.DeviceFingerprintRiskScore)
}

func TestValidateOrder_DeviceLookupFailureDoesNotFailOrder(t *testing.T) {
	api := &fakeAPI{
		ipResp:      okIPResponse(10),
		postbackErr: &ipqs.APIError{Status: http.StatusServiceUnavailable, Op: "LookupRequest"},
	}
	orders, order := testOrderFixtures()
	reports := &fakeReportStore{}
	e := newTestEngine(api, orders, reports)

	s := validSettings()
	s.DeviceTrackingVariableName = "userID"

	ok, _, err := e.ValidateOrder(context.Background(), s, eligibleContext(), order)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, reports.report.DeviceFingerprintRiskScore)
}

func TestValidateOrder_ProviderFailureFailsOpenAndSavesEmptyReport(t *testing.T) {
	api := &fakeAPI{ipErr: &ipqs.APIError{Status: http.StatusBadGateway, Op: "GetIPReputation"}}
	orders, order := testOrderFixtures()
	reports := &fakeReportStore{}
	e := newTestEngine(api, orders, reports)

	ok, report, err := e.ValidateOrder(context.Background(), validSettings(), eligibleContext(), order)

	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, report)
	assert.Equal(t, 0.0, report.PaymentRiskScore)
}

func TestApproveOrder(t *testing.T) {
	orders, order := testOrderFixtures()
	e := newTestEngine(nil, orders, nil)

	s := validSettings()
	s.ApproveStatusID = models.OrderStatusProcessing

	require.NoError(t, e.ApproveOrder(s, order))
	assert.Equal(t, models.OrderStatusProcessing, order.StatusID)
	assert.Empty(t, orders.notes)
}

func TestRejectOrder_SetsStatusAndWritesLocalizedNote(t *testing.T) {
	orders, order := testOrderFixtures()
	notifier := &fakeNotifier{}
	e := NewEngine(&fakeAPI{}, orders, &fakeReportStore{}, notifier)

	s := validSettings()
	s.RejectStatusID = models.OrderStatusCancelled
	s.InformCustomerAboutFraud = true

	require.NoError(t, e.RejectOrder(s, order))

	assert.Equal(t, models.OrderStatusCancelled, order.StatusID)
	require.Len(t, orders.notes, 1)
	note := orders.notes[0]
	assert.Equal(t, uint(9), note.OrderID)
	assert.True(t, note.DisplayToCustomer)
	// customer language is German
	assert.Contains(t, note.Note, "Storniert")
	assert.Equal(t, []string{"Storniert"}, notifier.rejected)
}

func TestRejectOrder_NilOrder(t *testing.T) {
	e := newTestEngine(nil, nil, nil)

	assert.ErrorIs(t, e.RejectOrder(validSettings(), nil), ErrNilOrder)
}

func TestCanValidateEmail(t *testing.T) {
	base := func() *RequestContext {
		rc := eligibleContext()
		rc.Method = "POST"
		rc.RouteName = "Register"
		rc.FormValid = true
		rc.Form = map[string]string{"Email": "new@example.com"}
		return rc
	}

	e := newTestEngine(nil, nil, nil)
	s := validSettings()

	assert.True(t, e.CanValidateEmail(s, base()))

	rc := base()
	rc.Method = "GET"
	assert.False(t, e.CanValidateEmail(s, rc))

	rc = base()
	rc.FormValid = false
	assert.False(t, e.CanValidateEmail(s, rc))

	rc = base()
	rc.RouteName = "ShoppingCart"
	assert.False(t, e.CanValidateEmail(s, rc))

	rc = base()
	delete(rc.Form, "Email")
	assert.False(t, e.CanValidateEmail(s, rc))

	rc = base()
	rc.CustomerEmail = "new@example.com"
	assert.False(t, e.CanValidateEmail(s, rc))

	disabled := validSettings()
	disabled.EmailValidationEnabled = false
	assert.False(t, e.CanValidateEmail(disabled, base()))
}

func TestValidateEmail_QueryAndVerdict(t *testing.T) {
	api := &fakeAPI{emailResp: &ipqs.EmailReputationResponse{
		Response: ipqs.Response{Success: true},
		Valid:    true,
	}}
	e := newTestEngine(api, nil, nil)

	rc := eligibleContext()
	rc.Form = map[string]string{"Email": "new@example.com"}

	ok, err := e.ValidateEmail(context.Background(), validSettings(), rc)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new@example.com", api.emailAddr)
	assert.Equal(t, "7", api.emailQuery.Get("timeout"))
	assert.Equal(t, "1", api.emailQuery.Get("abuse_strictness"))
	assert.Equal(t, "1", api.emailQuery.Get("strictness"))
}

func TestValidateEmail_ProviderFailureFailsOpen(t *testing.T) {
	api := &fakeAPI{emailErr: &ipqs.APIError{Status: http.StatusGatewayTimeout, Op: "GetEmailReputation"}}
	e := newTestEngine(api, nil, nil)

	rc := eligibleContext()
	rc.Form = map[string]string{"Email": "new@example.com"}

	ok, err := e.ValidateEmail(context.Background(), validSettings(), rc)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanDisplayDeviceFingerprint(t *testing.T) {
	e := newTestEngine(nil, nil, nil)
	s := validSettings()

	rc := eligibleContext()
	rc.RouteName = "Checkout"
	assert.True(t, e.CanDisplayDeviceFingerprint(s, rc))

	rc.RouteName = "HomePage"
	assert.False(t, e.CanDisplayDeviceFingerprint(s, rc))

	rc.RouteName = "Checkout"
	s.DeviceFingerprintEnabled = false
	assert.False(t, e.CanDisplayDeviceFingerprint(s, rc))
}

func boolPtr(b bool) *bool { return &b }
