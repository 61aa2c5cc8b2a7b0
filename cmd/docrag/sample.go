package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Write sample documents for trying out the pipeline",
	Long: `Write three sample markdown documents to the given directory
(default ./data/sample_docs), ready to ingest:

  docrag sample
  docrag setup
  docrag ingest ./data/sample_docs
  docrag ask "What is activation patching?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	dir := "./data/sample_docs"
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for name, content := range sampleDocs {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	fmt.Printf("Created %d sample documents in %s\n", len(sampleDocs), dir)
	return nil
}

var sampleDocs = map[string]string{
	"machine_learning.md": `# Machine Learning Fundamentals

## What is Machine Learning?

Machine learning is a subset of artificial intelligence that gives computers the ability to learn from data without being explicitly programmed. Instead of writing rules by hand, you show the system thousands of examples and it figures out the patterns itself.

## Types of Machine Learning

Supervised learning uses labeled training data where each example has an input and the correct output. The model learns to map inputs to outputs. Common examples include spam detection (input: email text, output: spam or not spam), image classification (input: image, output: cat or dog), and price prediction (input: house features, output: price).

Unsupervised learning works with data that has no labels. The algorithm finds hidden structure in the data. Clustering groups similar items together, like grouping customers by purchasing behavior. Dimensionality reduction compresses high-dimensional data into fewer dimensions while preserving important patterns.

Reinforcement learning involves an agent learning by interacting with an environment and receiving rewards or penalties. The agent learns a policy that maximizes cumulative reward. Notable successes include AlphaGo beating world champion Go players and robots learning to walk.

## Evaluation Metrics

Accuracy measures the percentage of correct predictions. However, accuracy can be misleading with imbalanced datasets. If 99% of emails are not spam, a model that always predicts "not spam" has 99% accuracy but is useless.

Precision measures how many of the positive predictions were actually correct. Recall measures how many actual positives were correctly identified. The F1 score is the harmonic mean of precision and recall, providing a balanced measure.
`,

	"mechanistic_interpretability.md": `# Mechanistic Interpretability

## What is Mechanistic Interpretability?

Mechanistic interpretability is the practice of reverse-engineering neural networks to understand exactly what computations they perform. Rather than treating the model as a black box, researchers open it up and study the internal mechanisms.

## Key Techniques

### Activation Patching

Activation patching is a causal intervention technique. You run the model on two different inputs and swap the internal activations at a specific layer. If the output changes, that layer was causally responsible for the difference.

For example, to test if attention head 7.3 is responsible for detecting sentiment: run a positive review through the model, save the activations of head 7.3, run a negative review, replace head 7.3's activations with the saved positive ones, and observe if the output flips from negative to positive.

### Induction Heads

Induction heads are a two-part attention mechanism that enables in-context learning. The first part (previous token head) copies information about what token preceded another token. The second part (the induction head itself) uses this to predict that when the same token appears again, the same next token will follow.

The pattern works like this: if the model sees the sequence [A][B] earlier in the text and then sees [A] again later, it predicts [B] will follow. This is the foundation of how transformers learn from context.

### Superposition

Superposition occurs when a neural network represents more features than it has dimensions in its activation space. The network encodes features along nearly orthogonal directions, allowing it to track many more concepts than its hidden dimension would suggest.

Key finding: a model with 100 dimensions can potentially represent thousands of features by using almost-orthogonal directions. This comes at the cost of interference between features, which explains why individual neurons often respond to seemingly unrelated concepts.

## Tools for Mechanistic Interpretability

TransformerLens is the primary Python library for mechanistic interpretability research. It provides hooks into every component of a transformer, allowing researchers to read, modify, and ablate activations at any point in the computation.
`,

	"transformer_architecture.md": `# The Transformer Architecture

## Overview

The Transformer was introduced in 2017 in the paper "Attention Is All You Need." It replaced recurrent neural networks with a purely attention-based architecture and became the foundation for modern language models like GPT, BERT, and their successors.

## Self-Attention Mechanism

Self-attention is the core innovation. For each token in the input, the model computes how much attention to pay to every other token. This is done through three projections:

Query (Q): "What am I looking for?"
Key (K): "What do I contain?"
Value (V): "What information do I carry?"

The attention score between two tokens is computed as the dot product of the query of one token and the key of another, divided by the square root of the dimension for numerical stability. These scores are passed through softmax to create a probability distribution, then used to weight the values.

## Multi-Head Attention

Instead of computing attention once, transformers use multiple attention heads running in parallel. Each head can learn to attend to different types of relationships. One head might focus on syntactic relationships (subject-verb), another on semantic relationships (pronouns-antecedents), and another on positional patterns.

Typical modern models use 8 to 96 attention heads. The outputs of all heads are concatenated and projected back to the model dimension.

## Feed-Forward Networks

After the attention layer, each token passes through an identical feed-forward network independently. This network typically expands the dimension by 4x, applies a non-linearity (ReLU or GELU), then projects back down. Research suggests these layers store factual knowledge.

## Positional Encoding

Since attention treats the input as a set (no inherent order), positional information must be added explicitly. The original transformer used fixed sinusoidal encodings. Modern models use learned position embeddings or rotary position embeddings (RoPE), which encode relative positions through rotation matrices.

## Model Variants

GPT (decoder-only) uses causal attention where each token can only attend to previous tokens. This makes it ideal for text generation but means it cannot see future context.

BERT (encoder-only) uses bidirectional attention where each token can attend to all other tokens. This gives better understanding but makes it unsuitable for generation.

T5 (encoder-decoder) uses an encoder to process the input bidirectionally and a decoder to generate output autoregressively. This combines the strengths of both approaches.
`,
}
