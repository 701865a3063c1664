package markdown

// BlockKind discriminates the concrete Block types.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockUnorderedListItem
	BlockOrderedListItem
	BlockChecklistItem
	BlockCode
	BlockBlockquote
	BlockTable
	BlockHorizontalRule
	BlockBlank
	BlockParagraph
)

// Block is one rendering unit covering a contiguous run of source lines.
// Raw returns exactly the lines the block consumed: joining the Raw slices
// of all blocks in parse order with "\n" reconstructs the parsed input.
type Block interface {
	Kind() BlockKind
	Raw() []string
}

// Heading is an ATX heading. Level runs 1 (largest) through 4 (smallest).
type Heading struct {
	Level int
	Text  string
	Spans []Span
	raw   []string
}

func (Heading) Kind() BlockKind { return BlockHeading }
func (b Heading) Raw() []string { return b.raw }

// UnorderedListItem is a single "- " or "* " bullet line.
type UnorderedListItem struct {
	Text  string
	Spans []Span
	raw   []string
}

func (UnorderedListItem) Kind() BlockKind { return BlockUnorderedListItem }
func (b UnorderedListItem) Raw() []string { return b.raw }

// OrderedListItem is a single "N. " line. Index is the literal number from
// the source, passed through without renumbering.
type OrderedListItem struct {
	Index int
	Text  string
	Spans []Span
	raw   []string
}

func (OrderedListItem) Kind() BlockKind { return BlockOrderedListItem }
func (b OrderedListItem) Raw() []string { return b.raw }

// ChecklistItem is a single "- [ ] " or "- [x] " task line.
type ChecklistItem struct {
	Checked bool
	Text    string
	Spans   []Span
	raw     []string
}

func (ChecklistItem) Kind() BlockKind { return BlockChecklistItem }
func (b ChecklistItem) Raw() []string { return b.raw }

// CodeBlock is a fenced code block. Code holds the inner lines joined with
// "\n" and is rendered literally, never through the inline pass. Lang is the
// info string after the opening fence, "" when absent.
type CodeBlock struct {
	Lang string
	Code string
	raw  []string
}

func (CodeBlock) Kind() BlockKind { return BlockCode }
func (b CodeBlock) Raw() []string { return b.raw }

// Blockquote is a run of consecutive "> " lines. Text holds the stripped
// lines rejoined with "\n".
type Blockquote struct {
	Text  string
	Spans []Span
	raw   []string
}

func (Blockquote) Kind() BlockKind { return BlockBlockquote }
func (b Blockquote) Raw() []string { return b.raw }

// Table is a pipe table. HeaderSpans and RowSpans carry the inline pass
// output for each cell, parallel to Header and Rows.
type Table struct {
	Header      []string
	Rows        [][]string
	HeaderSpans [][]Span
	RowSpans    [][][]Span
	raw         []string
}

func (Table) Kind() BlockKind { return BlockTable }
func (b Table) Raw() []string { return b.raw }

// HorizontalRule is a "---" / "***" / "___" line.
type HorizontalRule struct {
	raw []string
}

func (HorizontalRule) Kind() BlockKind { return BlockHorizontalRule }
func (b HorizontalRule) Raw() []string { return b.raw }

// Blank is a line that is empty after trimming.
type Blank struct {
	raw []string
}

func (Blank) Kind() BlockKind { return BlockBlank }
func (b Blank) Raw() []string { return b.raw }

// Paragraph is any other non-empty line.
type Paragraph struct {
	Text  string
	Spans []Span
	raw   []string
}

func (Paragraph) Kind() BlockKind { return BlockParagraph }
func (b Paragraph) Raw() []string { return b.raw }

// SpanKind discriminates inline span styles.
type SpanKind int

const (
	SpanPlainText SpanKind = iota
	SpanBold
	SpanItalic
	SpanStrikethrough
	SpanInlineCode
	SpanLink
	SpanImage
)

// Span is one styled run within a block's renderable text. Text holds the
// content to display with delimiters stripped; for SpanLink it is the link
// text and for SpanImage the alt text. URL is set only for links and images.
// Spans never overlap and cover the block text left to right.
type Span struct {
	Kind SpanKind
	Text string
	URL  string
}
