package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies a ledger failure.
type Kind uint8

const (
	Internal Kind = iota
	InvalidInput
	DuplicateKey
	NotFound
	AlreadySold
	InsufficientStock
	Unauthorized
)

var kindNames = [...]string{
	Internal:          "internal",
	InvalidInput:      "invalid_input",
	DuplicateKey:      "duplicate_key",
	NotFound:          "not_found",
	AlreadySold:       "already_sold",
	InsufficientStock: "insufficient_stock",
	Unauthorized:      "unauthorized",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Error is returned by every ledger operation.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrInternal          = &Error{Kind: Internal}
	ErrInvalidInput      = &Error{Kind: InvalidInput}
	ErrDuplicateKey      = &Error{Kind: DuplicateKey}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrAlreadySold       = &Error{Kind: AlreadySold}
	ErrInsufficientStock = &Error{Kind: InsufficientStock}
	ErrUnauthorized      = &Error{Kind: Unauthorized}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	default:
		b.WriteString(strings.ReplaceAll(e.Kind.String(), "_", " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Message is the human-readable part of the error, without the op prefix
// or wrapped store detail.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return strings.ReplaceAll(e.Kind.String(), "_", " ")
}

// KindOf reports the Kind carried by err; non-ledger errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func newError(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func invalidf(op, format string, args ...any) *Error {
	return newError(InvalidInput, op, fmt.Sprintf(format, args...), nil)
}

// classify turns whatever a transaction returned into an *Error tagged with op.
func classify(op string, err error) *Error {
	var le *Error
	if errors.As(err, &le) {
		if le.Op != "" {
			return le
		}
		c := *le
		c.Op = op
		return &c
	}
	switch {
	case isDuplicateKey(err):
		return newError(DuplicateKey, op, "already exists", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return newError(NotFound, op, "not found", err)
	default:
		return newError(Internal, op, "store failure", err)
	}
}

// isDuplicateKey recognises unique-constraint violations from every supported
// driver, whether or not gorm translated them.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isLockConflict recognises deadlocks and lock wait timeouts, after which the
// losing transaction has been rolled back and may simply run again.
func isLockConflict(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1205, 1213:
			return true
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40P01", "40001":
			return true
		}
	}
	return false
}

// retryable reports whether a transition lost a race with a concurrent writer.
func retryable(err error) bool {
	return KindOf(err) == DuplicateKey || isLockConflict(err)
}
