package tool

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
)

const ToolTextAnalyze = "text.analyze"

var wordPattern = regexp.MustCompile(`\w+`)

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "awesome": {}, "amazing": {}, "love": {},
	"excellent": {}, "happy": {}, "nice": {}, "fantastic": {}, "positive": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "poor": {},
	"sad": {}, "angry": {}, "worst": {}, "negative": {}, "horrible": {},
}

type TextAnalyzeOutput struct {
	WordCount       int    `json:"word_count"`
	CharacterCount  int    `json:"character_count"`
	Sentiment       string `json:"sentiment"`
	SentimentReason string `json:"sentiment_reason"`
}

// NewTextTool counts words and characters and scores sentiment against fixed
// keyword sets. Pure function of its input; safe to call repeatedly.
func NewTextTool() *Spec {
	params := map[string]*schema.ParameterInfo{
		"text": {Type: schema.String, Desc: "Text to analyze", Required: true},
	}
	return &Spec{
		Info: &schema.ToolInfo{
			Name:        ToolTextAnalyze,
			Desc:        "Analyze text: word count, character count, and rule-based sentiment.",
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		},
		Params: params,
		Invoke: func(_ context.Context, args map[string]any) (any, error) {
			text, _ := stringArg(args, "text")
			if strings.TrimSpace(text) == "" {
				return nil, fmt.Errorf("text is empty")
			}

			tokens := wordPattern.FindAllString(text, -1)

			posHits := 0
			negHits := 0
			for _, token := range tokens {
				lower := strings.ToLower(token)
				if _, ok := positiveWords[lower]; ok {
					posHits++
				}
				if _, ok := negativeWords[lower]; ok {
					negHits++
				}
			}

			sentiment := "neutral"
			reason := fmt.Sprintf("Equal or zero keyword hits (pos=%d, neg=%d).", posHits, negHits)
			switch {
			case posHits > negHits:
				sentiment = "positive"
				reason = fmt.Sprintf("More positive keywords (%d) than negative keywords (%d).", posHits, negHits)
			case negHits > posHits:
				sentiment = "negative"
				reason = fmt.Sprintf("More negative keywords (%d) than positive keywords (%d).", negHits, posHits)
			}

			return TextAnalyzeOutput{
				WordCount:       len(tokens),
				CharacterCount:  utf8.RuneCountInString(text),
				Sentiment:       sentiment,
				SentimentReason: reason,
			}, nil
		},
	}
}
