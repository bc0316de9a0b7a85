// Package i18n holds the English and Arabic copy served to clients. Keys
// missing from a dictionary fall back to English, then to the key itself,
// so a missing translation never blanks the UI.
package i18n

import "github.com/RafiqAuto/rafiq-mvp/engine/domain"

type dict map[string]string

var en = dict{
	"app.brand":       "DriveSense",
	"app.analyzing":   "Analyzing...",
	"app.calculate":   "Calculate PRR Score",
	"app.calc_failed": "Failed to calculate PRR score. Please try again.",

	"results.prr_label":       "PREDICTIVE RISK & REPAIR SCORE",
	"results.score.excellent": "EXCELLENT",
	"results.score.good":      "GOOD",
	"results.score.attention": "ATTENTION",
	"results.ai_recs":         "AI Recommendations",
	"results.nearby_garages":  "Nearby Garages:",

	"chat.title":              "DriveSense Chat",
	"chat.find_garages":       "Find Nearby Garages",
	"chat.placeholder":        "Ask about your vehicle...",
	"chat.trouble_connecting": "Sorry, I'm having trouble connecting right now. Please try again.",
	"chat.voice_connecting":   "Connecting to voice agent...",
	"chat.voice_open":         "Connection opened. You can start speaking.",
	"chat.voice_closed":       "Voice connection closed.",
	"chat.voice_perm_error":   "Could not access microphone. Please grant permission and try again.",
	"chat.voice_key_error":    "Voice chat requires GEMINI_API_KEY. Add it to a .env file and restart.",
	"chat.location_error":     "I couldn't access your location. Please enable location permissions in your browser settings to use this feature.",
	"chat.maps_error":         "Sorry, I couldn't find garages near you. Please ensure location services are enabled.",

	"booking.confirmed":     "Booking confirmed at",
	"booking.for":           "for",
	"booking.at":            "at",
	"booking.loyalty_added": "+50 loyalty points added.",

	"profile.member":         "QIC Member",
	"profile.loyalty_points": "QIC Loyalty Points",
}

var ar = dict{
	"app.brand":       "درايف سنس",
	"app.analyzing":   "جاري التحليل...",
	"app.calculate":   "احسب درجة المخاطر والصيانة",
	"app.calc_failed": "فشل في حساب الدرجة. يرجى المحاولة لاحقًا.",

	"results.prr_label":       "درجة المخاطر والصيانة التنبؤية",
	"results.score.excellent": "ممتاز",
	"results.score.good":      "جيد",
	"results.score.attention": "بحاجة للاهتمام",
	"results.ai_recs":         "توصيات الذكاء الاصطناعي",
	"results.nearby_garages":  "ورش قريبة:",

	"chat.title":              "محادثة درايف سنس",
	"chat.find_garages":       "ابحث عن ورش قريبة",
	"chat.placeholder":        "اسأل عن مركبتك...",
	"chat.trouble_connecting": "عذرًا، أواجه مشكلة في الاتصال الآن. يرجى المحاولة مرة أخرى.",
	"chat.voice_connecting":   "جاري الاتصال بالوكيل الصوتي...",
	"chat.voice_open":         "تم فتح الاتصال. يمكنك البدء بالتحدث.",
	"chat.voice_closed":       "تم إغلاق الاتصال الصوتي.",
	"chat.voice_perm_error":   "تعذر الوصول إلى الميكروفون. يرجى السماح وإعادة المحاولة.",
	"chat.voice_key_error":    "المحادثة الصوتية تتطلب مفتاح GEMINI_API_KEY. الرجاء إضافته وإعادة التشغيل.",
	"chat.location_error":     "تعذر الوصول إلى موقعك. فعّل أذونات الموقع لاستخدام هذه الميزة.",
	"chat.maps_error":         "عذرًا، لم أتمكن من العثور على ورش قريبة. تأكد من تفعيل خدمات الموقع.",

	"profile.member":         "عضو QIC",
	"profile.loyalty_points": "نقاط ولاء QIC",
}

var dicts = map[domain.Language]dict{
	domain.LangEnglish: en,
	domain.LangArabic:  ar,
}

// T resolves key for the language.
func T(lang domain.Language, key string) string {
	if d, ok := dicts[lang]; ok {
		if v, ok := d[key]; ok {
			return v
		}
	}
	if v, ok := en[key]; ok {
		return v
	}
	return key
}

// IsRTL reports whether the language renders right to left.
func IsRTL(lang domain.Language) bool {
	return lang == domain.LangArabic
}

// ScoreBand maps a readiness score to its display band. The label key is
// "results.score." + band.
func ScoreBand(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	default:
		return "attention"
	}
}
