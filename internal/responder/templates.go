package responder

import (
	"ShopMate/internal/intent"
	"ShopMate/internal/language"
)

// localized holds one string per supported locale
type localized map[language.Locale]string

func (l localized) in(locale language.Locale) string {
	if s, ok := l[locale]; ok {
		return s
	}
	return l[language.English]
}

var greeting = localized{
	language.English: "Hi! 👋 I'm ShopMate, your shopping buddy. How can I help you today?",
	language.Hindi:   "नमस्ते! 👋 मैं ShopMate हूँ, आपका शॉपिंग साथी। आज मैं आपकी क्या मदद कर सकता हूँ?",
	language.Kannada: "ನಮಸ್ಕಾರ! 👋 ನಾನು ShopMate, ನಿಮ್ಮ ಶಾಪಿಂಗ್ ಗೆಳೆಯ. ಇಂದು ನಾನು ಹೇಗೆ ಸಹಾಯ ಮಾಡಲಿ?",
}

// opener arguments: product name, price
var opener = localized{
	language.English: "I see you're interested in %s priced at ₹%s. Why would you like a discount?",
	language.Hindi:   "मैं देख रहा हूँ कि आपको %s पसंद है, जिसकी कीमत ₹%s है। आप छूट क्यों चाहते हैं?",
	language.Kannada: "ನೀವು ₹%[2]s ಬೆಲೆಯ %[1]s ನಲ್ಲಿ ಆಸಕ್ತರಾಗಿದ್ದೀರಿ. ನಿಮಗೆ ರಿಯಾಯಿತಿ ಏಕೆ ಬೇಕು?",
}

var dealConfirmed = localized{
	language.English: "Deal confirmed! Should I add it to your cart? 😄",
	language.Hindi:   "अनुबंध पक्का! क्या मैं इसे आपकी कार्ट में जोड़ दूं? 😄",
	language.Kannada: "ಸೋದು ದೃಢೀಕರಿಸಲಾಯಿತು! ಇದನ್ನು ನಿಮ್ಮ ಕಾರ್ಟ್‌ಗೆ ಸೇರಿಸಬೇಕೆ? 😄",
}

// counteroffer arguments: offer, discount percent
var counteroffer = localized{
	language.English: "Alright — I can offer ₹%s (about %d%% off). Do you accept?",
	language.Hindi:   "ठीक है — मैं आपको रु. %s की पेशकश कर सकता हूँ (लगभग %d%% छूट)। स्वीकार हैं?",
	language.Kannada: "ಸರಿ — ನಾನು ನಿಮಗೆ ₹%s ರ ರಿಯಾಯಿತಿಯನ್ನು ನೀಡಬಹುದು (ಸುಮಾರು %d%% ಕಡಿತ). ಒಪ್ಪುತ್ತೀರಿ?",
}

var help = localized{
	language.English: "I'm here to help! 💛 You can browse groceries, clothes, electronics, or check your cart.",
	language.Hindi:   "मैं आपकी मदद के लिए यहाँ हूँ! 💛 आप किराना, कपड़े, इलेक्ट्रॉनिक्स देख सकते हैं या अपनी कार्ट चेक कर सकते हैं।",
	language.Kannada: "ನಾನು ನಿಮಗೆ ಸಹಾಯ ಮಾಡಲು ಇಲ್ಲಿದ್ದೇನೆ! 💛 ನೀವು ದಿನಸಿ, ಬಟ್ಟೆಗಳು, ಎಲೆಕ್ಟ್ರಾನಿಕ್ಸ್ ನೋಡಬಹುದು ಅಥವಾ ನಿಮ್ಮ ಕಾರ್ಟ್ ಪರಿಶೀಲಿಸಬಹುದು।",
}

// navigation confirmations keyed by destination name
var navigation = map[string]localized{
	intent.Cart.Name: {
		language.English: "Got it! Opening your cart now 🛒💛",
		language.Hindi:   "ठीक है! आपकी कार्ट खोल रहा हूँ 🛒💛",
		language.Kannada: "ಸರಿ! ನಿಮ್ಮ ಕಾರ್ಟ್ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 🛒💛",
	},
	intent.Grocery.Name: {
		language.English: "Yum! Let's check out the grocery section 🥦✨",
		language.Hindi:   "यम! किराने का सेक्शन खोल रहा हूँ 🥦✨",
		language.Kannada: "ಯಮ್! ದಿನಸಿ ವಿಭಾಗ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 🥦✨",
	},
	intent.Clothing.Name: {
		language.English: "Nice choice! Taking you to the clothes section 👕✨",
		language.Hindi:   "बढ़िया! कपड़ों का सेक्शन खोल रहा हूँ 👕✨",
		language.Kannada: "ಚೆನ್ನಾಗಿದೆ! ಬಟ್ಟೆಗಳ ವಿಭಾಗ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 👕✨",
	},
	intent.Electronics.Name: {
		language.English: "Great! Taking you to the electronics section 📱✨",
		language.Hindi:   "शानदार! इलेक्ट्रॉनिक्स सेक्शन खोल रहा हूँ 📱✨",
		language.Kannada: "ಅದ್ಭುತ! ಎಲೆಕ್ಟ್ರಾನಿಕ್ಸ್ ವಿಭಾಗ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 📱✨",
	},
	intent.Checkout.Name: {
		language.English: "Awesome! Let's go to checkout 💳✨",
		language.Hindi:   "बढ़िया! चेकआउट पेज खोल रहा हूँ 💳✨",
		language.Kannada: "ಚೆನ್ನಾಗಿದೆ! ಚೆಕ್‌ಔಟ್ ಪುಟ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 💳✨",
	},
	intent.Auth.Name: {
		language.English: "Sure! Taking you to login & signup page 😊",
		language.Hindi:   "बिल्कुल! लॉगिन पेज खोल रहा हूँ 😊",
		language.Kannada: "ಖಂಡಿತ! ಲಾಗಿನ್ ಪುಟ ತೆರೆಯುತ್ತಿದ್ದೇನೆ 😊",
	},
	intent.Home.Name: {
		language.English: "Going back to home 🏠",
		language.Hindi:   "होम पेज पर वापस जा रहे हैं 🏠",
		language.Kannada: "ಮುಖಪುಟಕ್ಕೆ ಹಿಂತಿರುಗುತ್ತಿದ್ದೇವೆ 🏠",
	},
}

// fallback for destinations added to a custom routing table
var navigationFallback = localized{
	language.English: "On it! Taking you to %s ✨",
	language.Hindi:   "ठीक है! %s खोल रहा हूँ ✨",
	language.Kannada: "ಸರಿ! %s ತೆರೆಯುತ್ತಿದ್ದೇನೆ ✨",
}
