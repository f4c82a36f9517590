// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  props.go
//
// ==========================================================================

package parcutils

// Category identifies one of the fixed property types attached to cross-references
type Category int

// property categories, in table order
const (
	NCBIGI Category = iota
	NCBITAXONOMYID
	PROTEINNAME
	GENENAME
	CHAIN
	UNIPROTKBACCESSION
	PROTEOMEID
	COMPONENT
	NumCategories
)

// table name stems
var categoryNames = [NumCategories]string{
	"ncbi_gi",
	"ncbi_taxonomy_id",
	"protein_name",
	"gene_name",
	"chain",
	"uniprot_kb_accession",
	"proteome_id",
	"component",
}

// property type attribute values
var categoryIs = map[string]Category{
	"NCBI_GI":             NCBIGI,
	"NCBI_taxonomy_id":    NCBITAXONOMYID,
	"protein_name":        PROTEINNAME,
	"gene_name":           GENENAME,
	"chain":               CHAIN,
	"UniProtKB_accession": UNIPROTKBACCESSION,
	"proteome_id":         PROTEOMEID,
	"component":           COMPONENT,
}

func (c Category) String() string {

	if c < 0 || c >= NumCategories {
		return "unknown"
	}

	return categoryNames[c]
}

// CategoryFromType maps a property type attribute to its category
func CategoryFromType(typ string) (Category, bool) {

	cat, ok := categoryIs[typ]
	return cat, ok
}

// PropertyTable interns the values of one category within one entry and
// records the junction rows that refer to them
type PropertyTable struct {
	index  map[string]uint64
	values []string
	links  []XRefProperty
}

// Intern returns the surrogate for a value, assigning the next dense
// 1-based integer on first sight
func (p *PropertyTable) Intern(value string) uint64 {

	if p.index == nil {
		p.index = make(map[string]uint64)
	}

	if sur, ok := p.index[value]; ok {
		return sur
	}

	p.values = append(p.values, value)
	sur := uint64(len(p.values))
	p.index[value] = sur

	return sur
}

// Link records a junction row
func (p *PropertyTable) Link(xrefIndex, surrogate uint64, cat Category) {

	p.links = append(p.links, XRefProperty{XRefIndex: xrefIndex, Category: cat, Surrogate: surrogate})
}

// Links returns junction rows in the order properties were seen
func (p *PropertyTable) Links() []XRefProperty {

	return p.links
}

// Values returns dictionary rows in increasing surrogate order
func (p *PropertyTable) Values() []PropertyValue {

	if len(p.values) == 0 {
		return nil
	}

	// surrogates are assigned in append order, so the list is already sorted
	res := make([]PropertyValue, len(p.values))
	for i, val := range p.values {
		res[i] = PropertyValue{Surrogate: uint64(i + 1), Value: val}
	}

	return res
}

// Len returns the number of distinct values
func (p *PropertyTable) Len() int {

	return len(p.values)
}

// Reset empties the table, keeping allocated storage for the next entry
func (p *PropertyTable) Reset() {

	clear(p.index)
	p.values = p.values[:0]
	p.links = p.links[:0]
}
