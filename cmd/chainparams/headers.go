// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/starwels/starwelsd/blockchain"
)

// readHeaders decodes one hex encoded serialized block header per line.  Blank
// lines and lines starting with # are skipped.
func readHeaders(r io.Reader) ([]*wire.BlockHeader, error) {
	var headers []*wire.BlockHeader
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		serialized, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(serialized) != wire.MaxBlockHeaderPayload {
			return nil, fmt.Errorf("line %d: header is %d bytes, "+
				"want %d", lineNum, len(serialized),
				wire.MaxBlockHeaderPayload)
		}

		var header wire.BlockHeader
		err = header.Deserialize(bytes.NewReader(serialized))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		headers = append(headers, &header)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return headers, nil
}

// connectHeaders feeds the headers to the chain.  Headers violating a rule
// are skipped and counted, any other failure is returned.
func connectHeaders(chain *blockchain.HeaderChain, headers []*wire.BlockHeader) (int, error) {
	var rejected int
	for _, header := range headers {
		_, err := chain.ProcessHeader(header)
		if err == nil {
			continue
		}
		var ruleErr blockchain.RuleError
		if !errors.As(err, &ruleErr) {
			return rejected, err
		}
		mainLog.Warnf("Rejected header %v: %v", header.BlockHash(), err)
		rejected++
	}
	return rejected, nil
}
