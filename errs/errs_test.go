package errs

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestKindIsTarget(t *testing.T) {
	err := Resource(IO, "matrix.mtx", fs.ErrNotExist)
	if !errors.Is(err, IO) {
		t.Fatalf("expected IO kind, got %v", err)
	}
	if errors.Is(err, Deserialize) {
		t.Fatalf("IO error must not match Deserialize")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "matrix.mtx") {
		t.Fatalf("error should name the resource, is %q", err.Error())
	}
}

func TestResourceKeepsInnerKind(t *testing.T) {
	inner := Newf(Compress, "size mismatch")
	err := Resource(Deserialize, "dict.da", inner)
	if KindOf(err) != Compress {
		t.Fatalf("expected inner kind to survive, got %s", KindOf(err))
	}
	if !strings.Contains(err.Error(), "dict.da") {
		t.Fatalf("resource should be attached, is %q", err.Error())
	}
	if Resource(IO, "x", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("plain")) != Unknown {
		t.Fatalf("foreign error should be of kind Unknown")
	}
}
