package models

// RequestContext reúne os sinais da requisição usados na classificação.
// É criado na entrada da requisição e não é alterado depois.
type RequestContext struct {
	Path          string
	Host          string
	Referrer      string
	TrackingParam string
	UserAgent     string
}

// TrafficClass é o grupo em que a requisição é classificada
type TrafficClass string

const (
	ClassAutomatedCrawler TrafficClass = "automated_crawler"
	ClassSocialReferral   TrafficClass = "social_referral"
	ClassDirect           TrafficClass = "direct"
)

// IsValid verifica se a classe é conhecida
func (c TrafficClass) IsValid() bool {
	switch c {
	case ClassAutomatedCrawler, ClassSocialReferral, ClassDirect:
		return true
	}
	return false
}

func (c TrafficClass) String() string {
	return string(c)
}
