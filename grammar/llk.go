// Copyright 2024 The g Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grammar

import "github.com/jakewins/g/lexer"

// llk is the token cursor the recursive-descent parser drives: one token of
// lookahead, pulled off the lexer's channel as needed. The parser never
// needs to see further ahead than the token it's about to accept or reject,
// so there's no k-deep lookahead buffer to maintain here.
type llk struct {
	c   <-chan lexer.Token
	cur lexer.Token
}

// newLLk opens a token cursor over input, primed with its first token.
func newLLk(input string) *llk {
	l := &llk{c: lexer.New(input)}
	l.advance()
	return l
}

func (l *llk) advance() {
	for t := range l.c {
		l.cur = t
		return
	}
	l.cur = lexer.Token{Type: lexer.ItemEOF}
}

// current returns the token currently being processed.
func (l *llk) current() lexer.Token {
	return l.cur
}

// is reports whether the current token has type tt.
func (l *llk) is(tt lexer.TokenType) bool {
	return l.cur.Type == tt
}

// consume advances past the current token if it matches tt, returning it.
func (l *llk) consume(tt lexer.TokenType) (lexer.Token, bool) {
	if l.cur.Type != tt {
		return lexer.Token{}, false
	}
	t := l.cur
	l.advance()
	return t, true
}
