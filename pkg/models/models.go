package models

// PullRequest identifies the change request under review along with the
// title and description used for prompt context. Immutable for one run.
type PullRequest struct {
	Owner       string
	Repo        string
	Number      int
	Title       string
	Description string
}

// FullName returns the owner/repo form used in API paths and logs.
func (pr PullRequest) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// DevNull is the unified-diff sentinel path for a missing file side.
const DevNull = "/dev/null"

// FileDiff represents one file's portion of a unified diff.
type FileDiff struct {
	// ToPath is the path of the file in the final version. Empty when the
	// file was deleted; such files are excluded from analysis and mapping.
	ToPath   string
	FromPath string
	Hunks    []Hunk

	IsNew     bool
	IsDeleted bool
	IsRenamed bool
}

// HasTargetPath reports whether the file can anchor review comments.
func (f *FileDiff) HasTargetPath() bool {
	return f.ToPath != "" && f.ToPath != DevNull
}

// Hunk is one contiguous changed region of a file. Identity is positional:
// hunks are never merged or reordered after parsing.
type Hunk struct {
	// Header is the literal @@ line.
	Header string
	// Content is the header plus body exactly as it appeared in the diff.
	Content string
	Lines   []Line

	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// Line is a single diff body line with dual numbering. A zero number means
// the line does not exist on that side.
type Line struct {
	OldNumber int
	NewNumber int
	// Content includes the +/-/space prefix.
	Content string
}

// AnchorNumber resolves the line number used for comment anchoring: the
// final-version number when present, else the original-version number.
func (l Line) AnchorNumber() int {
	if l.NewNumber > 0 {
		return l.NewNumber
	}
	return l.OldNumber
}

// Suggestion is a single model-produced review finding for one hunk.
type Suggestion struct {
	LineNumber int
	Comment    string
}

// DraftComment is the unit of publication: one line-anchored review comment.
type DraftComment struct {
	Body string
	Path string
	Line int
}

// ReviewEventComment is the review event label for a comment-only review,
// as opposed to an approval or a change request.
const ReviewEventComment = "COMMENT"

// ReviewBatch is an ordered, size-bounded group of comments submitted in a
// single review-creation call.
type ReviewBatch struct {
	PullRequest PullRequest
	Comments    []DraftComment
	Event       string
}
