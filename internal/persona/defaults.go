package persona

// Field-level defaults applied by consumers when a document omits them.
// The normalizer itself never injects defaults; a persona reflects exactly
// what its document says.
const (
	DefaultEntryMessage = "Hey everyone! Ready to collaborate!"
	DefaultTextMessage  = "I've joined the meeting and I'm ready to assist."
)

// DefaultCharacteristics seed newly created personas.
var DefaultCharacteristics = []string{
	"Gen-Z speech patterns",
	"Tech-savvy and modern",
	"Playful and engaging personality",
	"Unique perspective on their domain",
}

// DefaultVoiceCharacteristics seed the voice section of new personas.
var DefaultVoiceCharacteristics = []string{
	"modern internet slang",
	"expertise in their field",
}
