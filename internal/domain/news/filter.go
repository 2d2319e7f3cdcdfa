package news

import (
	"strings"

	"github.com/riskibarqy/playscout/internal/platform/textnorm"
)

// MinKeywordMatches is how many football terms an article must mention.
const MinKeywordMatches = 2

var DefaultKeywords = []string{
	"futebol", "gol", "campeonato", "liga", "time", "clube", "atacante",
	"zagueiro", "meia", "volante", "técnico", "treinador", "jogo", "partida",
	"cartão", "pênalti", "torcida",
}

var DefaultBlockedSources = []string{
	"Globo", "UOL Economia", "Revista Veja", "Estadão Política",
}

var DefaultNegativeWords = []string{
	"covid", "vacina", "política", "morte", "governo",
}

// RelevanceFilter keeps football articles and drops noise from the feed.
type RelevanceFilter struct {
	keywords       []string
	negativeWords  []string
	blockedSources map[string]struct{}
	minMatches     int
}

func NewRelevanceFilter(keywords, negativeWords, blockedSources []string) *RelevanceFilter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	if negativeWords == nil {
		negativeWords = DefaultNegativeWords
	}
	if blockedSources == nil {
		blockedSources = DefaultBlockedSources
	}

	filter := &RelevanceFilter{
		keywords:       foldAll(keywords),
		negativeWords:  foldAll(negativeWords),
		blockedSources: make(map[string]struct{}, len(blockedSources)),
		minMatches:     MinKeywordMatches,
	}
	for _, source := range blockedSources {
		filter.blockedSources[textnorm.Fold(source)] = struct{}{}
	}
	return filter
}

// Apply returns the relevant articles in input order, dropping repeated titles.
func (f *RelevanceFilter) Apply(articles []Article) []Article {
	out := make([]Article, 0, len(articles))
	seenTitles := make(map[string]struct{}, len(articles))
	for _, article := range articles {
		if !f.Relevant(article) {
			continue
		}
		title := textnorm.Fold(article.Title)
		if _, dup := seenTitles[title]; dup {
			continue
		}
		seenTitles[title] = struct{}{}
		out = append(out, article)
	}
	return out
}

func (f *RelevanceFilter) Relevant(article Article) bool {
	if strings.TrimSpace(article.Title) == "" || strings.TrimSpace(article.Description) == "" {
		return false
	}
	if _, blocked := f.blockedSources[textnorm.Fold(article.SourceName)]; blocked {
		return false
	}

	text := textnorm.Fold(article.Title + " " + article.Description)
	for _, word := range f.negativeWords {
		if strings.Contains(text, word) {
			return false
		}
	}

	matches := 0
	for _, keyword := range f.keywords {
		if strings.Contains(text, keyword) {
			matches++
			if matches >= f.minMatches {
				return true
			}
		}
	}
	return false
}

func foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if folded := textnorm.Fold(value); folded != "" {
			out = append(out, folded)
		}
	}
	return out
}
