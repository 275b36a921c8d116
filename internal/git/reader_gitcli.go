package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CLISource reads commit objects by shelling out to the git binary.
type CLISource struct {
	repoPath string
	order    WalkOrder
}

// OpenCLISource checks that opts.RepoPath is a repository git can read.
func OpenCLISource(opts SourceOptions) (*CLISource, error) {
	if _, err := revListOrderArgs(opts.Order); err != nil {
		return nil, err
	}
	s := &CLISource{repoPath: opts.RepoPath, order: opts.Order}
	if _, err := s.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, err
	}
	return s, nil
}

func revListOrderArgs(order WalkOrder) ([]string, error) {
	switch order {
	case WalkOrderDefault:
		return nil, nil
	case WalkOrderCommitterTime:
		return []string{"--date-order"}, nil
	case WalkOrderTopological:
		return []string{"--topo-order"}, nil
	default:
		return nil, fmt.Errorf("walk order %s is not supported by the %s backend", order, BackendGitCLI)
	}
}

func (s *CLISource) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", s.repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Head returns the commit id HEAD resolves to.
func (s *CLISource) Head(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "rev-parse", "--verify", "HEAD^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Walk returns the ids reachable from the given commit.
func (s *CLISource) Walk(ctx context.Context, from string) (CommitIDIter, error) {
	orderArgs, err := revListOrderArgs(s.order)
	if err != nil {
		return nil, err
	}

	args := append([]string{"rev-list"}, orderArgs...)
	args = append(args, from)
	out, err := s.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var ids []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &sliceIDIter{ids: ids}, nil
}

// Each field is NUL-terminated; the raw message is last so it may contain anything but NUL.
const commitFormat = "%H%x00%P%x00%an%x00%ae%x00%at%x00%cn%x00%ce%x00%ct%x00%B"

// Commit resolves an id to its commit object.
func (s *CLISource) Commit(ctx context.Context, id string) (*Commit, error) {
	out, err := s.run(ctx, "show", "-s", "--no-color", "--pretty=format:"+commitFormat, id+"^{commit}")
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", id, err)
	}
	c, err := parseCommitRecord(out)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", id, err)
	}
	return c, nil
}

func parseCommitRecord(out []byte) (*Commit, error) {
	i := 0
	fields := make([]string, 0, 8)
	for len(fields) < 8 {
		f, ok := readStringUntilNUL(out, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git show format (field %d)", len(fields))
		}
		fields = append(fields, f)
	}

	authorWhen, err := parseUnixField(fields[4])
	if err != nil {
		return nil, fmt.Errorf("parse author date: %w", err)
	}
	committerWhen, err := parseUnixField(fields[7])
	if err != nil {
		return nil, fmt.Errorf("parse committer date: %w", err)
	}

	return &Commit{
		Hash:      fields[0],
		Parents:   strings.Fields(fields[1]),
		Author:    Signature{Name: fields[2], Email: fields[3], When: authorWhen},
		Committer: Signature{Name: fields[5], Email: fields[6], When: committerWhen},
		Message:   string(out[i:]),
	}, nil
}

func parseUnixField(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}

const refFormat = "%(refname)%00%(objectname)%00%(*objectname)%00%(symref)"

// Refs lists the named references of the repository.
func (s *CLISource) Refs(ctx context.Context) ([]Ref, error) {
	out, err := s.run(ctx, "for-each-ref", "--format="+refFormat)
	if err != nil {
		return nil, err
	}
	return parseRefLines(out)
}

func parseRefLines(out []byte) ([]Ref, error) {
	var refs []Ref
	for _, line := range bytes.Split(out, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(string(line), "\x00")
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected git for-each-ref line: %q", string(line))
		}
		name, object, peeled, symref := fields[0], fields[1], fields[2], fields[3]
		if symref != "" || name == "HEAD" {
			continue
		}

		target := object
		if peeled != "" {
			target = peeled
		}
		refs = append(refs, Ref{Name: name, Target: target, Kind: ClassifyRef(name)})
	}
	return refs, nil
}

type sliceIDIter struct {
	ids []string
	pos int
}

func (it *sliceIDIter) Next() (string, error) {
	if it.pos >= len(it.ids) {
		return "", io.EOF
	}
	id := it.ids[it.pos]
	it.pos++
	return id, nil
}

func (it *sliceIDIter) Close() {}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}

func readStringUntilNUL(b []byte, i *int) (string, bool) {
	raw, ok := readUntilNUL(b, i)
	if !ok {
		return "", false
	}
	return string(raw), true
}
