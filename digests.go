package preninja

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"shanhu.io/misc/errcode"
)

func digestBytes(bs []byte) string {
	sum := sha256.Sum256(bs)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func makeDigest(t string, vs ...interface{}) (string, error) {
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, t)
	for _, v := range vs {
		bs, err := json.Marshal(v)
		if err != nil {
			return "", errcode.Annotate(err, "json marshal")
		}
		buf.Write(bs)
		buf.WriteByte('\n')
	}
	return digestBytes(buf.Bytes()), nil
}
