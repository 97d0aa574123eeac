package server

import "encoding/xml"

// Minimal TwiML vocabulary for the voice and chat webhooks. Field order
// matters: verbs marshal in declaration order, which matches the
// Gather-then-fallback and Say-then-Hangup flows the handlers produce.

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name  `xml:"Gather"`
	Input         string    `xml:"input,attr"`
	Action        string    `xml:"action,attr"`
	SpeechTimeout string    `xml:"speechTimeout,attr,omitempty"`
	Timeout       int       `xml:"timeout,attr,omitempty"`
	Say           *twimlSay `xml:"Say,omitempty"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlVoiceResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Gather  *twimlGather `xml:"Gather,omitempty"`
	Say     []twimlSay   `xml:"Say,omitempty"`
	Hangup  *twimlHangup `xml:"Hangup,omitempty"`
}

type twimlMessage struct {
	XMLName xml.Name `xml:"Message"`
	Body    string   `xml:",chardata"`
}

type twimlMessagingResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Message twimlMessage `xml:"Message"`
}

// pollyVoiceFor maps a preferred language onto a TTS voice.
func pollyVoiceFor(language string) string {
	switch language {
	case "Turkish", "TR", "tr":
		return "Polly.Filiz"
	case "Arabic", "AR", "ar":
		return "Polly.Zeina"
	case "German", "DE", "de":
		return "Polly.Marlene"
	case "Russian", "RU", "ru":
		return "Polly.Tatyana"
	default:
		return "Polly.Joanna"
	}
}
