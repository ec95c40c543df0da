package fraud

import (
	"github.com/cartshield/cartshield/internal/ipqs"
	"github.com/cartshield/cartshield/internal/models"
)

// acceptIPResponse interprets an IP reputation reply into a verdict. A nil
// response means the provider could not be reached and always passes (fail
// open). A fraud score equal to the threshold blocks.
func acceptIPResponse(s *models.FraudSettings, r *ipqs.IPReputationResponse) bool {
	if r == nil {
		return true
	}

	if s.AllowCrawlers && r.IsCrawler {
		// Crawler carve-out: the provider's own success flag decides,
		// bypassing proxy/VPN/TOR and score checks.
		return r.Success
	}

	isProxy := s.ProxyBlockingEnabled && r.IsProxy
	isVpn := s.VpnBlockingEnabled && r.IsVpn
	isTor := s.TorBlockingEnabled && r.IsTor
	isFraud := r.FraudScore >= s.IPReputationFraudScoreForBlocking

	return r.Success && !isFraud && !isProxy && !isVpn && !isTor
}

// acceptTransactionalResponse additionally holds the nested transaction risk
// score against the order-scoring threshold when the provider returned one.
func acceptTransactionalResponse(s *models.FraudSettings, r *ipqs.IPReputationResponse) bool {
	ok := acceptIPResponse(s, r)
	if ok && r != nil && r.TransactionDetails != nil {
		return r.TransactionDetails.RiskScore < s.RiskScoreForBlocking
	}
	return ok
}

// acceptEmailResponse interprets an email reputation reply. Nil fails open.
func acceptEmailResponse(s *models.FraudSettings, r *ipqs.EmailReputationResponse) bool {
	if r == nil {
		return true
	}

	isFraud := r.FraudScore >= s.EmailReputationFraudScoreForBlocking

	return r.Success && r.Valid && !r.Disposable && !isFraud
}
