// Package catalog holds the static module-type and reference-model catalogs
// the builder UI and the chat fallback search draw from.
package catalog

// ModuleType describes one kind of draggable module block.
type ModuleType struct {
	Type     string         `json:"type"`
	Color    string         `json:"color"`
	Kind     string         `json:"kind"`
	Defaults map[string]any `json:"defaults"`
}

// ModuleTypes is the palette. Defaults seed a new node's props.
var ModuleTypes = []ModuleType{
	{Type: "Tokenizer", Color: "emerald", Kind: "io", Defaults: map[string]any{"vocab": 32000, "model": "BPE"}},
	{Type: "Embedding", Color: "emerald", Kind: "core", Defaults: map[string]any{"dim": 768}},
	{Type: "Positional Encoding", Color: "emerald", Kind: "core", Defaults: map[string]any{"max_len": 5000}},
	{Type: "Multi-Head Attention", Color: "blue", Kind: "core", Defaults: map[string]any{"heads": 8, "dim": 512}},
	{Type: "Feed-Forward", Color: "purple", Kind: "core", Defaults: map[string]any{"d_ff": 2048, "dropout": 0.1}},
	{Type: "LayerNorm", Color: "amber", Kind: "norm", Defaults: map[string]any{"eps": 1e-5}},
	{Type: "Dropout", Color: "amber", Kind: "reg", Defaults: map[string]any{"p": 0.1}},
	{Type: "Residual", Color: "slate", Kind: "conn", Defaults: map[string]any{}},
	{Type: "Pooling", Color: "cyan", Kind: "pool", Defaults: map[string]any{"mode": "mean"}},
	{Type: "Linear", Color: "rose", Kind: "io", Defaults: map[string]any{"out": 1000}},
	{Type: "Softmax", Color: "teal", Kind: "act", Defaults: map[string]any{"dim": -1}},
	{Type: "ReLU", Color: "teal", Kind: "act", Defaults: map[string]any{}},
	{Type: "GELU", Color: "teal", Kind: "act", Defaults: map[string]any{}},
}

// Lookup returns the module type entry for a palette key.
func Lookup(typ string) (ModuleType, bool) {
	for _, m := range ModuleTypes {
		if m.Type == typ {
			return m, true
		}
	}
	return ModuleType{}, false
}

// DefaultsFor returns a copy of the default props for a module type, or an
// empty map for unknown types.
func DefaultsFor(typ string) map[string]any {
	out := make(map[string]any)
	m, ok := Lookup(typ)
	if !ok {
		return out
	}
	for k, v := range m.Defaults {
		out[k] = v
	}
	return out
}

// ReferenceModel is an entry in the reference-model library shown to users
// and searched by the chat fallback.
type ReferenceModel struct {
	Key   string
	Title string
	Desc  string
	Paper string
}

var ReferenceModels = []ReferenceModel{
	{
		Key:   "GPT (Decoder-only)",
		Title: "GPT (Decoder-only)",
		Desc:  "General generation: dialogue, code, writing, agents.",
		Paper: "https://arxiv.org/abs/2005.14165",
	},
	{
		Key:   "BERT (Encoder-only)",
		Title: "BERT (Encoder-only)",
		Desc:  "Discrimination/retrieval: classification, extractive QA, dense retrieval.",
		Paper: "https://arxiv.org/abs/1810.04805",
	},
	{
		Key:   "T5 (Seq2Seq)",
		Title: "T5 (Seq2Seq)",
		Desc:  "Text-to-text transfer: translation, summarization, multi-task.",
		Paper: "https://arxiv.org/abs/1910.10683",
	},
	{
		Key:   "CLIP",
		Title: "CLIP",
		Desc:  "Contrastive vision-language pretraining; zero-shot classification.",
		Paper: "https://arxiv.org/abs/2103.00020",
	},
}
