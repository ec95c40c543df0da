package fraud

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cartshield/cartshield/internal/i18n"
	"github.com/cartshield/cartshield/internal/ipqs"
	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/models"
)

// Argument contract violations are programmer errors and always surface.
var (
	ErrNilOrder    = errors.New("fraud: order is nil")
	ErrNilSettings = errors.New("fraud: settings are nil")
	ErrNilContext  = errors.New("fraud: request context is nil")
)

// ReputationAPI is the slice of the provider client the engine calls.
type ReputationAPI interface {
	GetIPReputation(ctx context.Context, ipAddress string, query *ipqs.Query) (*ipqs.IPReputationResponse, error)
	GetEmailReputation(ctx context.Context, email string, query *ipqs.Query) (*ipqs.EmailReputationResponse, error)
	LookupRequest(ctx context.Context, query *ipqs.Query) (*ipqs.PostbackResponse, error)
}

// OrderStore is the host-owned order/address persistence the engine consumes.
type OrderStore interface {
	CustomerByID(id uint) (*models.Customer, error)
	AddressByID(id uint) (*models.Address, error)
	OrderItems(orderID uint) ([]models.OrderItem, error)
	// SetOrderStatus updates the status and runs the host's order-status-check
	// side effects.
	SetOrderStatus(order *models.Order, statusID int) error
	InsertOrderNote(note *models.OrderNote) error
}

// ReportStore persists the per-order fraud report document.
type ReportStore interface {
	SaveReport(orderID uint, report *models.OrderFraudReport) error
}

// Notifier is told about rejected orders; nil disables notifications.
type Notifier interface {
	OrderRejected(order *models.Order, statusName string)
}

// Engine decides eligibility and verdicts for the three reputation checks and
// drives their side effects.
type Engine struct {
	api      ReputationAPI
	orders   OrderStore
	reports  ReportStore
	notifier Notifier
}

// NewEngine wires the evaluation engine. notifier may be nil.
func NewEngine(api ReputationAPI, orders OrderStore, reports ReportStore, notifier Notifier) *Engine {
	return &Engine{api: api, orders: orders, reports: reports, notifier: notifier}
}

// CanValidateIPReputation reports whether the IP reputation check applies to
// this request. Any failed precondition means "skip the check" (default
// allow), never a hard failure.
func (e *Engine) CanValidateIPReputation(s *models.FraudSettings, rc *RequestContext) bool {
	if !e.canValidateRequestIP(s, rc) {
		return false
	}

	if !s.IPReputationEnabled {
		return false
	}

	if s.IPQualityGroups != "" {
		return routeInGroups(s.IPQualityGroups, rc.RouteName)
	}

	return true
}

// ValidateRequest scores the caller's IP and interprets the reply. Provider
// failures yield no verdict and pass; a 2xx reply that cannot be decoded is a
// defect and propagates.
func (e *Engine) ValidateRequest(ctx context.Context, s *models.FraudSettings, rc *RequestContext) (bool, error) {
	if s == nil {
		return false, ErrNilSettings
	}
	if rc == nil {
		return false, ErrNilContext
	}

	resp, err := e.ipReputation(ctx, s, rc, ipReputationQuery(s, rc, rc.LanguageCode))
	if err != nil {
		return false, err
	}

	return acceptIPResponse(s, resp), nil
}

// CanValidateOrder reports whether a placed order qualifies for scoring.
func (e *Engine) CanValidateOrder(s *models.FraudSettings, rc *RequestContext, order *models.Order) (bool, error) {
	if order == nil {
		return false, ErrNilOrder
	}

	if !e.canValidateRequestIP(s, rc) {
		return false, nil
	}

	return s.OrderScoringEnabled, nil
}

// ValidateOrder scores the order's transaction data, persists the fraud
// report, and returns the transactional verdict together with the report. The
// secondary device-fingerprint lookup never fails the order; its absence just
// leaves that report field empty.
func (e *Engine) ValidateOrder(ctx context.Context, s *models.FraudSettings, rc *RequestContext, order *models.Order) (bool, *models.OrderFraudReport, error) {
	if order == nil {
		return false, nil, ErrNilOrder
	}
	if rc == nil {
		return false, nil, ErrNilContext
	}

	query, err := e.orderQuery(s, rc, order)
	if err != nil {
		return false, nil, err
	}

	resp, err := e.ipReputation(ctx, s, rc, query)
	if err != nil {
		return false, nil, err
	}

	report := &models.OrderFraudReport{}
	if resp != nil && resp.TransactionDetails != nil {
		td := resp.TransactionDetails
		report.PaymentRiskScore = td.RiskScore
		report.ValidBillingEmail = td.ValidBillingEmail
		report.ValidBillingPhone = td.ValidBillingPhone
		report.ValidBillingAddress = td.ValidBillingAddress
		report.ValidShippingEmail = td.ValidShippingEmail
		report.ValidShippingPhone = td.ValidShippingPhone
		report.ValidShippingAddress = td.ValidShippingAddress
	}

	if s.DeviceTrackingVariableName != "" {
		lookup := ipqs.NewQuery().
			Set(s.DeviceTrackingVariableName, strconv.FormatUint(uint64(rc.CustomerID), 10)).
			Set("type", "devicetracker")

		dfResp, err := e.api.LookupRequest(ctx, lookup)
		if err != nil {
			e.logAPIError(s, rc, "device fingerprint lookup failed", err)
		} else if dfResp.Success {
			chance := dfResp.FraudChance
			report.DeviceFingerprintRiskScore = &chance
		}
	}

	if err := e.reports.SaveReport(order.ID, report); err != nil {
		return false, nil, err
	}

	return acceptTransactionalResponse(s, resp), report, nil
}

// ApproveOrder moves the order into the configured approve status.
func (e *Engine) ApproveOrder(s *models.FraudSettings, order *models.Order) error {
	return e.setOrderStatus(order, s.ApproveStatusID)
}

// RejectOrder moves the order into the configured reject status and appends a
// fraud note, visible to the customer when configured so.
func (e *Engine) RejectOrder(s *models.FraudSettings, order *models.Order) error {
	if err := e.setOrderStatus(order, s.RejectStatusID); err != nil {
		return err
	}

	lang := "en"
	if customer, err := e.orders.CustomerByID(order.CustomerID); err == nil {
		lang = customer.LanguageCode
	}
	catalog := i18n.New(lang)
	statusName := catalog.T(i18n.KeyOrderStatusPrefix + strconv.Itoa(order.StatusID))

	note := &models.OrderNote{
		OrderID:           order.ID,
		Note:              catalog.T(i18n.KeyOrderFraudNote, statusName),
		DisplayToCustomer: s.InformCustomerAboutFraud,
	}
	if err := e.orders.InsertOrderNote(note); err != nil {
		return err
	}

	if e.notifier != nil {
		e.notifier.OrderRejected(order, statusName)
	}

	return nil
}

// CanValidateEmail reports whether the submitted Email field on this request
// qualifies for scoring.
func (e *Engine) CanValidateEmail(s *models.FraudSettings, rc *RequestContext) bool {
	if rc.Method != "POST" {
		return false
	}

	// don't validate email for invalid POST requests
	if !rc.FormValid {
		return false
	}

	if !e.canValidateRequest(s, rc) {
		return false
	}

	if !routeInList(EmailValidationRouteNames, rc.RouteName) {
		return false
	}

	email, ok := rc.FormEmail()
	if !ok {
		return false
	}

	if !s.EmailValidationEnabled {
		return false
	}

	// re-submitting your own address is never suspicious
	return email != rc.CustomerEmail
}

// ValidateEmail scores the submitted email. Provider failures pass (fail
// open); decode defects propagate.
func (e *Engine) ValidateEmail(ctx context.Context, s *models.FraudSettings, rc *RequestContext) (bool, error) {
	if s == nil {
		return false, ErrNilSettings
	}
	if rc == nil {
		return false, ErrNilContext
	}

	email, ok := rc.FormEmail()
	if !ok {
		return false, nil
	}

	query := ipqs.NewQuery().
		SetInt("timeout", s.EmailReputationTimeout).
		SetInt("abuse_strictness", s.AbuseStrictness).
		SetInt("strictness", s.EmailReputationStrictness)

	resp, err := e.api.GetEmailReputation(ctx, email, query)
	if err != nil {
		var apiErr *ipqs.APIError
		if errors.As(err, &apiErr) {
			e.logAPIError(s, rc, "email reputation call failed", err)
			return true, nil
		}
		return false, err
	}

	if resp != nil && resp.RecentAbuse {
		logger.WithFields(logrus.Fields{"customer_id": rc.CustomerID}).
			Debug("email flagged for recent abuse")
	}

	return acceptEmailResponse(s, resp), nil
}

// CanDisplayDeviceFingerprint reports whether the fingerprint collector
// should render on the current page.
func (e *Engine) CanDisplayDeviceFingerprint(s *models.FraudSettings, rc *RequestContext) bool {
	if !e.canValidateRequest(s, rc) {
		return false
	}

	if !s.DeviceFingerprintEnabled {
		return false
	}

	return routeInList(DeviceFingerprintRouteNames, rc.RouteName)
}

func (e *Engine) canValidateRequestIP(s *models.FraudSettings, rc *RequestContext) bool {
	if rc.IsSystemAccount {
		if !rc.IsSearchEngine {
			return false
		}
		if s.AllowCrawlers {
			// crawlers are exempt from blocking entirely
			return false
		}
	}

	return e.canValidateRequest(s, rc)
}

func (e *Engine) canValidateRequest(s *models.FraudSettings, rc *RequestContext) bool {
	if s == nil || rc == nil {
		return false
	}

	if rc.AdminArea {
		return false
	}

	if rc.RouteName == PreventFraudRouteName {
		return false
	}

	if rc.ClientIP == "" {
		return false
	}
	if ip := net.ParseIP(rc.ClientIP); ip != nil && ip.IsLoopback() {
		return false
	}

	if !rc.PluginActive {
		return false
	}

	if rc.IsAdmin {
		return false
	}

	return len(ValidateSettings(s)) == 0
}

// ipReputation performs the provider call with fail-open semantics: transport
// and non-2xx failures yield a nil response, anything else propagates.
func (e *Engine) ipReputation(ctx context.Context, s *models.FraudSettings, rc *RequestContext, query *ipqs.Query) (*ipqs.IPReputationResponse, error) {
	resp, err := e.api.GetIPReputation(ctx, rc.ClientIP, query)
	if err != nil {
		var apiErr *ipqs.APIError
		if errors.As(err, &apiErr) {
			e.logAPIError(s, rc, "ip reputation call failed", err)
			return nil, nil
		}
		return nil, err
	}
	return resp, nil
}

// ipReputationQuery builds the base provider query for a request.
func ipReputationQuery(s *models.FraudSettings, rc *RequestContext, language string) *ipqs.Query {
	q := ipqs.NewQuery().
		SetBool("mobile", rc.IsMobile).
		SetInt("strictness", s.IPReputationStrictness).
		SetBool("allow_public_access_points", s.AllowPublicAccessPoints).
		SetBool("lighter_penalties", s.LighterPenalties).
		Set("user_language", language)

	if rc.UserAgent != "" {
		q.Set("user_agent", rc.UserAgent)
	}

	return q
}

// orderQuery extends the base query with the order's transaction data.
func (e *Engine) orderQuery(s *models.FraudSettings, rc *RequestContext, order *models.Order) (*ipqs.Query, error) {
	customer, err := e.orders.CustomerByID(order.CustomerID)
	if err != nil {
		return nil, err
	}

	items, err := e.orders.OrderItems(order.ID)
	if err != nil {
		return nil, err
	}

	q := ipReputationQuery(s, rc, customer.LanguageCode)

	if billing, err := e.orders.AddressByID(order.BillingAddressID); err == nil && billing != nil {
		setAddressFields(q, "billing", billing)
	}

	if order.ShippingAddressID != nil && !order.PickupInStore {
		if shipping, err := e.orders.AddressByID(*order.ShippingAddressID); err == nil && shipping != nil {
			setAddressFields(q, "shipping", shipping)
		}
	}

	quantity := 0
	for _, item := range items {
		quantity += item.Quantity
	}

	q.Set("username", customer.Username)
	q.SetFloat("order_amount", order.OrderTotal)
	q.SetInt("order_quantity", quantity)

	return q, nil
}

func setAddressFields(q *ipqs.Query, prefix string, addr *models.Address) {
	q.Set(prefix+"_first_name", addr.FirstName)
	q.Set(prefix+"_last_name", addr.LastName)
	q.Set(prefix+"_company", addr.Company)
	q.Set(prefix+"_country", addr.CountryISOCode)
	q.Set(prefix+"_address_1", addr.Address1)
	q.Set(prefix+"_address_2", addr.Address2)
	q.Set(prefix+"_city", addr.City)
	q.Set(prefix+"_region", addr.Region)
	q.Set(prefix+"_postcode", addr.Postcode)
	q.Set(prefix+"_email", addr.Email)
	q.Set(prefix+"_phone", addr.Phone)
}

func (e *Engine) setOrderStatus(order *models.Order, statusID int) error {
	if order == nil {
		return ErrNilOrder
	}
	return e.orders.SetOrderStatus(order, statusID)
}

func (e *Engine) logAPIError(s *models.FraudSettings, rc *RequestContext, msg string, err error) {
	if s == nil || !s.LogRequestErrors {
		return
	}
	logger.WithFields(logrus.Fields{
		"customer_id": rc.CustomerID,
		"client_ip":   rc.ClientIP,
	}).WithError(err).Error(msg)
}
