package reader

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfig sync.Once

// Decrypt removes the standard security handler from an encrypted PDF using
// the empty user password. Documents protected only by an owner password,
// which viewers open without prompting, decrypt this way; documents that
// need a user password fail with an error wrapping ErrEncrypted.
func Decrypt(data []byte) (plain []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdfcpu panic: %v", ErrEncrypted, r)
		}
	}()

	disableConfig.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = ""
	conf.OwnerPW = ""

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypted, err)
	}
	return out.Bytes(), nil
}
