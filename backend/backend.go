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

// Package backend describes the contract the physical execution backend
// exposes to the frontend. The backend itself — index selection, storage,
// execution — lives outside this module; all the frontend needs from it is
// a catalog of callable procedures and functions, described here.
package backend

import "github.com/jakewins/g/token"

// FuncType distinguishes scalar functions, evaluated once per row, from
// aggregating functions, which the planner must route through an
// Aggregate plan node instead of a plain Project.
type FuncType int8

const (
	// Scalar functions are evaluated independently for each row.
	Scalar FuncType = iota
	// Aggregating functions accumulate state across a group of rows.
	Aggregating
)

func (ft FuncType) String() string {
	if ft == Aggregating {
		return "AGGREGATING"
	}
	return "SCALAR"
}

// Type is a minimal value-type tag describing a signature's arguments and
// return value; it carries no runtime representation. The planner does not
// check call arguments against it.
type Type int8

const (
	// Any accepts a value of any runtime type.
	Any Type = iota
	// Integer is a 64-bit signed integer.
	Integer
	// Float is a 64-bit floating point number.
	Float
	// String is a UTF-8 string.
	String
	// Bool is a boolean.
	Bool
	// Node is a graph node reference.
	Node
	// Relationship is a graph relationship reference.
	Relationship
	// List is a homogeneous or heterogeneous list of values.
	List
	// Map is a string-keyed map of values.
	Map
)

// FuncSignature describes one procedure or function callable from a query.
type FuncSignature struct {
	Name     token.Token
	FuncType FuncType
	Returns  Type
	Args     []FuncArg
}

// FuncArg is one named, typed argument of a FuncSignature.
type FuncArg struct {
	Name token.Token
	Type Type
}

// Desc describes the backend a query is being planned for: currently just
// the set of procedures/functions it can execute. Spec §4.3 notes this will
// eventually need a digest or version once it grows to include indexes and
// constraints, since a plan can become invalid if those change after the
// fact — out of scope for this frontend today.
type Desc struct {
	funcs map[token.Token]FuncSignature
}

// NewDesc builds a Desc cataloging the given function/procedure signatures.
func NewDesc(sigs []FuncSignature) *Desc {
	d := &Desc{funcs: make(map[token.Token]FuncSignature, len(sigs))}
	for _, s := range sigs {
		d.funcs[s.Name] = s
	}
	return d
}

// Lookup returns the signature registered under name, if any.
func (d *Desc) Lookup(name token.Token) (FuncSignature, bool) {
	if d == nil {
		return FuncSignature{}, false
	}
	s, ok := d.funcs[name]
	return s, ok
}
