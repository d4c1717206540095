// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvidenceUnit indicates an EvidenceUnit failed validation.
	ErrInvalidEvidenceUnit = errors.New("invalid evidence unit")

	// ErrInvalidRouteDecision indicates a RouteDecision failed validation.
	ErrInvalidRouteDecision = errors.New("invalid route decision")

	// ErrEmptyContent indicates the Content field is empty after trimming.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySourceFilename indicates the SourceFilename field is empty.
	ErrEmptySourceFilename = errors.New("source filename cannot be empty")

	// ErrInvalidPageRange indicates page numbers violate 1 <= PageStart <= PageEnd.
	ErrInvalidPageRange = errors.New("invalid page range")

	// ErrNegativeSequenceIndex indicates a SequenceIndex below zero.
	ErrNegativeSequenceIndex = errors.New("sequence index cannot be negative")

	// ErrInvalidRoute indicates an unknown Route value.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidConfidence indicates a confidence outside [0, 1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)
