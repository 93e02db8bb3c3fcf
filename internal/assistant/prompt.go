package assistant

import (
	"fmt"
	"time"
)

var dhaka = time.FixedZone("Asia/Dhaka", 6*60*60)

const systemPromptTemplate = `আপনি BdAsk, বাংলাদেশের মানুষের জন্য তৈরি একজন বন্ধুসুলভ AI সহকারী।

আজকের তারিখ: %s

নির্দেশনা:
- সবসময় বাংলায় উত্তর দিন, যদি না ব্যবহারকারী অন্য ভাষায় প্রশ্ন করেন।
- বাংলাদেশের সংস্কৃতি, ইতিহাস, ভূগোল এবং সাম্প্রতিক বিষয় সম্পর্কে সঠিক তথ্য দিন।
- উত্তর সংক্ষিপ্ত, স্পষ্ট এবং সহায়ক রাখুন।
- তারিখ বা সময় সংক্রান্ত প্রশ্নে উপরের তারিখ ব্যবহার করুন।
- কোনো বিষয়ে নিশ্চিত না হলে তা সততার সাথে জানান।`

// SystemPrompt returns the assistant persona with today's date in Dhaka time.
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.In(dhaka).Format("2006-01-02 (Monday)"))
}

// languageNames maps ISO codes to the names used in translation prompts.
var languageNames = map[string]string{
	"bn": "Bengali",
	"en": "English",
	"hi": "Hindi",
	"ur": "Urdu",
	"ar": "Arabic",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
}

// LanguageName returns the English name for code, or code itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func translationPrompt(text, source, target string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Only provide the translation, no explanations:\n\n%s",
		LanguageName(source), LanguageName(target), text,
	)
}
