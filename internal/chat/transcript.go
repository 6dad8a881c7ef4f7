package chat

import (
	"fmt"
	"time"
)

// Attribution is the fixed footer line of a downloaded answer.
const Attribution = "Vivi IA - Assistente em SIAPE e Gestão Pública"

// TranscriptFileName returns resposta_vivi_<YYYY-MM-DD>.txt for t's date.
func TranscriptFileName(t time.Time) string {
	return "resposta_vivi_" + t.Format("2006-01-02") + ".txt"
}

// FormatTranscript builds the plain-text body of a downloaded answer.
// Question and answer are written verbatim.
func FormatTranscript(question, answer string, t time.Time) string {
	return fmt.Sprintf("PERGUNTA: %s\n\nRESPOSTA:\n%s\n\n---\n%s\nData: %s",
		question, answer, Attribution, t.Format("02/01/2006, 15:04:05"))
}
