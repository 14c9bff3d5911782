package llm

import "fmt"

// Temperatures per prompt kind. Analysis answers stay deterministic;
// general conversation gets some freedom.
const (
	AnalysisTemperature = 0.2
	GeneralTemperature  = 0.7
)

// AnalysisPrompt frames a data-grounded question: the model answers from
// the rendered table context only, in the language of the question.
func AnalysisPrompt(query, context, lang string) string {
	if lang == "id" {
		return fmt.Sprintf(`Anda adalah analis data pabrik. Jawab pertanyaan HANYA berdasarkan data berikut.

DATA:
%s

PERTANYAAN: %s

Aturan:
- Gunakan angka yang ada di data, jangan mengarang.
- Jawab ringkas dalam bahasa Indonesia.
- Jika data tidak cukup untuk menjawab, katakan demikian.

JAWABAN:`, context, query)
	}
	return fmt.Sprintf(`You are a plant data analyst. Answer the question using ONLY the data below.

DATA:
%s

QUESTION: %s

Rules:
- Use the numbers present in the data, never invent figures.
- Answer concisely in English.
- If the data cannot answer the question, say so.

ANSWER:`, context, query)
}

// GeneralPrompt frames an open question with light dataset framing so the
// model stays on the equipment-log topic.
func GeneralPrompt(query, lang string) string {
	if lang == "id" {
		return fmt.Sprintf(`Anda adalah asisten untuk sistem log kejadian peralatan pabrik. Jawab pertanyaan berikut dengan singkat dan jelas dalam bahasa Indonesia.

PERTANYAAN: %s

JAWABAN:`, query)
	}
	return fmt.Sprintf(`You are an assistant for a plant equipment event log system. Answer the following question briefly and clearly in English.

QUESTION: %s

ANSWER:`, query)
}
