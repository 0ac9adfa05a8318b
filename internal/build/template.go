package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/2toxic/evxx/internal/fspath"
)

// Template is the C++ skeleton written by WriteTemplate. Debug output and
// fast I/O switch on the macro passed by FlagLocalMacro.
const Template = `#include <bits/stdc++.h>
using namespace std;
typedef long long i64;typedef unsigned long long u64;
#ifdef _LOCAL_SRC
#define db(...) fprintf (stderr, __VA_ARGS__)
#define set_io
#else
#define db(...)
#define set_io {ios_base::sync_with_stdio(0);cin.tie(0);cout.tie(0);}
#endif

int main () {
    set_io;

    return 0;
}
`

// WriteTemplate writes Template to src. It never overwrites: an existing
// entry yields ErrTemplateExists. No repository is required.
func (s *Service) WriteTemplate(src fspath.Path) error {
	f, err := os.OpenFile(src.String(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			s.log().Warn("file exists")
			return fmt.Errorf("%w: %s", ErrTemplateExists, src)
		}
		return err
	}
	if _, err := f.WriteString(Template); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.log().Info("write: ok")
	return nil
}
