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

import (
	"fmt"
	"strings"
)

// ValidateEvidenceUnit validates an EvidenceUnit according to domain rules.
//
// Validation rules:
//   - Content must not be empty after trimming
//   - SourceFilename must not be empty
//   - 1 <= PageStart <= PageEnd
//   - SequenceIndex >= 0
//
// NOT validated (populated after chunking):
//   - Vector (can be empty until the embedding step runs)
//   - Id (0 is valid until the index assigns a content-based ID)
//   - InsertedAt (set by storage)
func ValidateEvidenceUnit(unit *EvidenceUnit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit is nil", ErrInvalidEvidenceUnit)
	}

	if strings.TrimSpace(unit.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidenceUnit, ErrEmptyContent)
	}

	if unit.SourceFilename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidenceUnit, ErrEmptySourceFilename)
	}

	if unit.PageStart < 1 || unit.PageEnd < unit.PageStart {
		return fmt.Errorf("%w: %w: start %d, end %d",
			ErrInvalidEvidenceUnit, ErrInvalidPageRange, unit.PageStart, unit.PageEnd)
	}

	if unit.SequenceIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEvidenceUnit, ErrNegativeSequenceIndex)
	}

	return nil
}

// ValidateRouteDecision validates a RouteDecision according to domain rules.
func ValidateRouteDecision(decision *RouteDecision) error {
	if decision == nil {
		return fmt.Errorf("%w: decision is nil", ErrInvalidRouteDecision)
	}

	if err := ValidateRoute(decision.Route); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRouteDecision, err)
	}

	if decision.Confidence < 0 || decision.Confidence > 1 {
		return fmt.Errorf("%w: %w: value %g",
			ErrInvalidRouteDecision, ErrInvalidConfidence, decision.Confidence)
	}

	return nil
}

// ValidateRoute validates that a Route has a valid value.
func ValidateRoute(route Route) error {
	if route != RouteDocument && route != RouteWeb && route != RouteHybrid {
		return fmt.Errorf("%w: value %d", ErrInvalidRoute, route)
	}
	return nil
}
