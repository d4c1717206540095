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


package retrieval

import "errors"

var (
	// ErrDocumentSearcherRequired is returned when a document searcher is not provided.
	ErrDocumentSearcherRequired = errors.New("document searcher required")

	// ErrDocumentSearchFailed tags collaborator errors raised by the document index.
	ErrDocumentSearchFailed = errors.New("document search failed")

	// ErrWebSearchFailed tags collaborator errors raised by the web searcher.
	ErrWebSearchFailed = errors.New("web search failed")
)
