package quiz

// English tense identifiers as the mobile app sends them.
const (
	SimplePresent            = "simple_present"
	PresentContinuous        = "present_continuous"
	SimplePast               = "simple_past"
	PastContinuous           = "past_continuous"
	SimpleFuture             = "simple_future"
	FutureContinuous         = "future_continuous"
	PresentPerfect           = "present_perfect"
	PresentPerfectContinuous = "present_perfect_continuous"
	PastPerfect              = "past_perfect"
	PastPerfectContinuous    = "past_perfect_continuous"
	FuturePerfect            = "future_perfect"
	FuturePerfectContinuous  = "future_perfect_continuous"
)

type TenseOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// TenseOptions carries the Turkish display labels used in notification
// bodies and the app's tense picker.
var TenseOptions = []TenseOption{
	{Label: "Geniş Zaman (Simple Present)", Value: SimplePresent, Enabled: true},
	{Label: "Şimdiki Zaman (Present Continuous)", Value: PresentContinuous, Enabled: true},
	{Label: "Geçmiş Zaman (Simple Past)", Value: SimplePast, Enabled: true},
	{Label: "Geçmişte Şimdiki Zaman (Past Continuous)", Value: PastContinuous, Enabled: true},
	{Label: "Gelecek Zaman (Simple Future)", Value: SimpleFuture, Enabled: true},
	{Label: "Gelecekte Şimdiki Zaman (Future Continuous)", Value: FutureContinuous, Enabled: true},
	{Label: "Yakın Geçmiş (Present Perfect)", Value: PresentPerfect, Enabled: true},
	{Label: "Yakın Geçmişte Şimdiki Zaman (Present Perfect Continuous)", Value: PresentPerfectContinuous, Enabled: true},
	{Label: "Miş Geçmiş (Past Perfect)", Value: PastPerfect, Enabled: true},
	{Label: "Miş Geçmişte Şimdiki Zaman (Past Perfect Continuous)", Value: PastPerfectContinuous, Enabled: true},
	{Label: "Gelecekte Miş Geçmiş (Future Perfect)", Value: FuturePerfect, Enabled: true},
	{Label: "Gelecekte Miş Geçmişte Şimdiki Zaman (Future Perfect Continuous)", Value: FuturePerfectContinuous, Enabled: true},
}

func IsValidTense(v string) bool {
	for _, o := range TenseOptions {
		if o.Value == v {
			return true
		}
	}
	return false
}

// TenseLabel returns the Turkish label for a tense, or the raw value when
// it is unknown.
func TenseLabel(v string) string {
	for _, o := range TenseOptions {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}
