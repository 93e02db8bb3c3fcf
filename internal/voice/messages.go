package voice

// GenericErrorMessage is shown for unrecognized error codes.
const GenericErrorMessage = "ভয়েস ইনপুটে সমস্যা হয়েছে।"

var errorMessages = map[string]string{
	CodeNotAllowed:   "মাইক্রোফোন অনুমতি দেওয়া হয়নি। দয়া করে ব্রাউজার সেটিংস থেকে অনুমতি দিন।",
	CodeNoSpeech:     "কোনো কথা শোনা যায়নি। আবার চেষ্টা করুন।",
	CodeNetwork:      "নেটওয়ার্ক সমস্যা। ইন্টারনেট সংযোগ পরীক্ষা করুন।",
	CodeAudioCapture: "মাইক্রোফোন পাওয়া যায়নি। ডিভাইস সংযোগ পরীক্ষা করুন।",
	CodeAborted:      "ভয়েস ইনপুট বাতিল হয়েছে।",
}

// ErrorMessage maps an error code to its Bengali user-facing message.
func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return GenericErrorMessage
}
