// Package searchspace provides a concrete tabular cell search space in the
// NATS-Bench style: fixed-topology cells whose six edges each carry one
// operation, rendered as architecture strings like
// |nor_conv_3x3~0|+|none~0|skip_connect~1|+|avg_pool_3x3~0|none~1|nor_conv_1x1~2|.
// It implements the genetics.Oracle and genetics.Codec collaborator contracts.
package searchspace

import (
	"fmt"
	"strings"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
)

// NumEdges is the number of operations in a cell, and therefore the genotype
// length L for this search space.
const NumEdges = 6

// nodeEdges[i] is the number of incoming edges of intermediate node i+1.
var nodeEdges = [3]int{1, 2, 3}

// DefaultOperations is the standard five-operation alphabet.
func DefaultOperations() []genetics.Gene {
	return []genetics.Gene{"none", "skip_connect", "nor_conv_1x1", "nor_conv_3x3", "avg_pool_3x3"}
}

// CellCodec translates between architecture strings and genotypes over a
// fixed operation alphabet.
type CellCodec struct {
	alphabet genetics.Alphabet
}

// NewCellCodec builds a codec over the given operations; with no arguments
// it uses DefaultOperations.
func NewCellCodec(operations ...genetics.Gene) CellCodec {
	if len(operations) == 0 {
		operations = DefaultOperations()
	}
	return CellCodec{alphabet: genetics.NewAlphabet(operations...)}
}

// Alphabet returns the codec's operation alphabet.
func (c CellCodec) Alphabet() genetics.Alphabet { return c.alphabet }

// ArchitectureToGenotype parses an architecture string into the ordered
// sequence of its six edge operations.
func (c CellCodec) ArchitectureToGenotype(architecture string) (genetics.Genotype, error) {
	nodes := strings.Split(architecture, "+")
	if len(nodes) != len(nodeEdges) {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "architecture must have three node groups"),
			errors.Fields{"architecture": architecture, "nodes": len(nodes)})
	}

	genotype := make(genetics.Genotype, 0, NumEdges)
	for node, group := range nodes {
		trimmed := strings.Trim(group, "|")
		edges := strings.Split(trimmed, "|")
		if len(edges) != nodeEdges[node] {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "node group has the wrong edge count"),
				errors.Fields{"architecture": architecture, "node": node + 1, "edges": len(edges)})
		}
		for input, edge := range edges {
			operation, index, found := strings.Cut(edge, "~")
			if !found || index != fmt.Sprintf("%d", input) {
				return nil, errors.WithFields(
					errors.New(errors.ValidationFailed, "malformed edge token"),
					errors.Fields{"architecture": architecture, "edge": edge})
			}
			gene := genetics.Gene(operation)
			if !c.alphabet.Contains(gene) {
				return nil, errors.WithFields(
					errors.New(errors.ValidationFailed, "operation is not in the alphabet"),
					errors.Fields{"architecture": architecture, "operation": operation})
			}
			genotype = append(genotype, gene)
		}
	}
	return genotype, nil
}

// GenotypeToArchitecture renders a genotype as an architecture string.
func (c CellCodec) GenotypeToArchitecture(genotype genetics.Genotype) (string, error) {
	if !c.IsValid(genotype) {
		return "", errors.WithFields(
			errors.New(errors.ValidationFailed, "genotype does not describe a cell"),
			errors.Fields{"length": len(genotype)})
	}

	var b strings.Builder
	cursor := 0
	for node, edges := range nodeEdges {
		if node > 0 {
			b.WriteString("+")
		}
		b.WriteString("|")
		for input := 0; input < edges; input++ {
			fmt.Fprintf(&b, "%s~%d|", genotype[cursor], input)
			cursor++
		}
	}
	return b.String(), nil
}

// IsValid reports whether the genotype has exactly NumEdges genes, all drawn
// from the codec's alphabet.
func (c CellCodec) IsValid(genotype genetics.Genotype) bool {
	if len(genotype) != NumEdges {
		return false
	}
	for _, gene := range genotype {
		if !c.alphabet.Contains(gene) {
			return false
		}
	}
	return true
}
