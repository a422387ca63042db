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


// Package ai provides the text-encoding abstraction used by bookfinder.
//
// The search core never talks to a model directly. It depends on two small
// contracts defined here:
//
//   - Embedder: maps text to fixed-dimension vectors
//   - EmbedderFactory: loads a model and returns an Embedder, once per process
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder INTERFACE to
// prevent accidental coupling to a concrete backend. Test utility constructors
// (mock.NewMockEmbedder) return CONCRETE types so tests can inject behavior and
// read call counts.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//	mockEmbed := mock.NewMockEmbedder()           // returns *mock.MockEmbedder
//
// # Errors
//
// Every failure that means "the model cannot serve this request" is wrapped in
// core.ErrModelUnavailable, so the search facade can report search as
// unavailable without inspecting backend-specific errors.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("all-minilm"))
//	factory := openai.NewFactory(config)
//	embedder, err := factory(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "a mystery novel set in Victorian London")
package ai
