package news

import "testing"

func TestRelevanceFilter_Apply(t *testing.T) {
	t.Parallel()

	filter := NewRelevanceFilter(nil, nil, nil)
	articles := []Article{
		{Title: "Flamengo vence clássico", Description: "O time marcou um gol nos acréscimos da partida", SourceName: "Lance"},
		{Title: "FLAMENGO VENCE CLÁSSICO", Description: "O time marcou um gol nos acréscimos", SourceName: "ESPN"},
		{Title: "Mercado reage", Description: "Bolsa fecha em alta com jogo de juros", SourceName: "Valor"},
		{Title: "Técnico comenta vacina", Description: "Treinador do clube fala sobre vacina", SourceName: "Lance"},
		{Title: "Atacante renova", Description: "Clube confirma renovação do atacante", SourceName: "Globo"},
		{Title: "", Description: "Campeonato e liga", SourceName: "Lance"},
		{Title: "Pênalti polêmico", Description: "Cartao amarelo e penalti marcado", SourceName: "Lance"},
	}

	got := filter.Apply(articles)
	if len(got) != 2 {
		t.Fatalf("expected 2 relevant articles, got=%d (%+v)", len(got), got)
	}
	if got[0].SourceName != "Lance" || got[0].Title != "Flamengo vence clássico" {
		t.Fatalf("unexpected first article: %+v", got[0])
	}
	if got[1].Title != "Pênalti polêmico" {
		t.Fatalf("unexpected second article: %+v", got[1])
	}
}

func TestRelevanceFilter_SingleKeywordIsNotEnough(t *testing.T) {
	t.Parallel()

	filter := NewRelevanceFilter(nil, nil, nil)
	if filter.Relevant(Article{Title: "Resultado", Description: "Um gol apenas", SourceName: "X"}) {
		t.Fatalf("expected one keyword match to be rejected")
	}
}
