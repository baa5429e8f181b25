package responder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopMate/internal/catalog"
	"ShopMate/internal/intent"
	"ShopMate/internal/language"
	"ShopMate/internal/negotiation"
)

func newGenerator() *Generator {
	return New(negotiation.NewEngine(negotiation.DefaultPolicy()), intent.NewRouter(intent.DefaultRules))
}

var headphones = catalog.Product{ID: "elec-001", Name: "Wireless Headphones", Price: 1000}

func TestRoutingReply(t *testing.T) {
	g := newGenerator()
	var s negotiation.Session

	reply := g.Generate("show me electronics", &s)

	require.NotNil(t, reply.Navigation)
	assert.Equal(t, intent.Electronics, *reply.Navigation)
	assert.Equal(t, language.English, reply.Locale)
	assert.True(t, strings.HasSuffix(reply.Text, "\n[ROUTE:/electronics]"))
	assert.Equal(t, "Great! Taking you to the electronics section 📱✨", intent.StripMarker(reply.Text))

	route, ok := intent.ParseMarker(reply.Text)
	require.True(t, ok)
	assert.Equal(t, "/electronics", route)
}

func TestLocalizedRoutingReply(t *testing.T) {
	g := newGenerator()

	reply := g.Generate("मुझे कार्ट दिखाओ", nil)
	require.NotNil(t, reply.Navigation)
	assert.Equal(t, intent.Cart, *reply.Navigation)
	assert.Equal(t, language.Hindi, reply.Locale)
	assert.Equal(t, "ठीक है! आपकी कार्ट खोल रहा हूँ 🛒💛\n[ROUTE:/cart]", reply.Text)

	reply = g.Generate("ಮನೆ", nil)
	require.NotNil(t, reply.Navigation)
	assert.Equal(t, "ಮುಖಪುಟಕ್ಕೆ ಹಿಂತಿರುಗುತ್ತಿದ್ದೇವೆ 🏠\n[ROUTE:/]", reply.Text)
}

func TestHelpReply(t *testing.T) {
	g := newGenerator()
	var s negotiation.Session

	reply := g.Generate("what's up?", &s)

	assert.Nil(t, reply.Navigation)
	assert.False(t, reply.ClearNegotiation)
	assert.Equal(t, "I'm here to help! 💛 You can browse groceries, clothes, electronics, or check your cart.", reply.Text)
	_, ok := intent.ParseMarker(reply.Text)
	assert.False(t, ok)
}

func TestNegotiationTakesPriority(t *testing.T) {
	g := newGenerator()
	s := g.Engine().Start(headphones, 0, language.English)

	// "phone" would route to electronics outside a negotiation
	reply := g.Generate("my phone died, I need a discount", &s)

	assert.Nil(t, reply.Navigation)
	assert.Equal(t, negotiation.Counter, reply.Outcome.Kind)
	assert.Equal(t, "Alright — I can offer ₹920 (about 8% off). Do you accept?", reply.Text)
	assert.Equal(t, 1, s.Round())
}

func TestDealReply(t *testing.T) {
	g := newGenerator()
	s := g.Engine().Start(headphones, 0, language.English)
	g.Generate("too much", &s)

	reply := g.Generate("ok deal", &s)

	assert.True(t, reply.ClearNegotiation)
	assert.Equal(t, negotiation.Deal, reply.Outcome.Kind)
	assert.Equal(t, 920.0, reply.Outcome.Price)
	assert.Equal(t, "Deal confirmed! Should I add it to your cart? 😄", reply.Text)
	assert.False(t, s.Active())

	// once closed, messages route again
	reply = g.Generate("open my cart", &s)
	require.NotNil(t, reply.Navigation)
	assert.Equal(t, intent.Cart, *reply.Navigation)
}

func TestSessionLanguageIsPinned(t *testing.T) {
	g := newGenerator()
	s := g.Engine().Start(headphones, 0, language.Kannada)

	reply := g.Generate("please reduce", &s)
	assert.Equal(t, language.Kannada, reply.Locale)
	assert.Equal(t, "ಸರಿ — ನಾನು ನಿಮಗೆ ₹920 ರ ರಿಯಾಯಿತಿಯನ್ನು ನೀಡಬಹುದು (ಸುಮಾರು 8% ಕಡಿತ). ಒಪ್ಪುತ್ತೀರಿ?", reply.Text)

	// a Hindi acceptance is still answered in the pinned language
	reply = g.Generate("ठीक है", &s)
	assert.Equal(t, language.Kannada, reply.Locale)
	assert.Equal(t, "ಸೋದು ದೃಢೀಕರಿಸಲಾಯಿತು! ಇದನ್ನು ನಿಮ್ಮ ಕಾರ್ಟ್‌ಗೆ ಸೇರಿಸಬೇಕೆ? 😄", reply.Text)
}

func TestUnpinnedSessionUsesDetectedLanguage(t *testing.T) {
	g := newGenerator()
	s := g.Engine().Start(headphones, 0, "")

	reply := g.Generate("थोड़ा कम करो", &s)

	assert.Equal(t, language.Hindi, reply.Locale)
	assert.Equal(t, "ठीक है — मैं आपको रु. 920 की पेशकश कर सकता हूँ (लगभग 8% छूट)। स्वीकार हैं?", reply.Text)
}

func TestIdleSessionNeverMutated(t *testing.T) {
	g := newGenerator()
	var s negotiation.Session

	for i := 0; i < 5; i++ {
		g.Generate("hello there", &s)
		g.Generate("yes", &s)
		assert.Equal(t, negotiation.Session{}, s)
	}
}

func TestOpenerAndGreeting(t *testing.T) {
	g := newGenerator()

	assert.Equal(t,
		"I see you're interested in Wireless Headphones priced at ₹1000. Why would you like a discount?",
		g.NegotiationOpener(headphones, language.English))
	assert.Equal(t,
		"ನೀವು ₹1000 ಬೆಲೆಯ Wireless Headphones ನಲ್ಲಿ ಆಸಕ್ತರಾಗಿದ್ದೀರಿ. ನಿಮಗೆ ರಿಯಾಯಿತಿ ಏಕೆ ಬೇಕು?",
		g.NegotiationOpener(headphones, language.Kannada))
	assert.Equal(t, "Hi! 👋 I'm ShopMate, your shopping buddy. How can I help you today?", g.Greeting(language.English))
	assert.Equal(t, g.Greeting(language.English), g.Greeting("fr"))
}

func TestCustomDestinationFallback(t *testing.T) {
	deals := intent.Destination{Name: "deals", Route: "/deals"}
	g := New(negotiation.NewEngine(negotiation.DefaultPolicy()), intent.NewRouter([]intent.Rule{
		{Keywords: []string{"offers"}, Destination: deals},
	}))

	reply := g.Generate("any offers today?", nil)

	require.NotNil(t, reply.Navigation)
	assert.Equal(t, "On it! Taking you to deals ✨\n[ROUTE:/deals]", reply.Text)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "920", FormatPrice(920))
	assert.Equal(t, "1299.5", FormatPrice(1299.5))
}
