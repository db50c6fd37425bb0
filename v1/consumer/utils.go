package consumer

import "sort"

// PartitionSet is a set of topic-partitions.
type PartitionSet map[TopicPartition]struct{}

// NewPartitionSet builds a set from the given partitions.
func NewPartitionSet(tps ...TopicPartition) PartitionSet {
	s := make(PartitionSet, len(tps))
	for _, tp := range tps {
		s[tp] = struct{}{}
	}
	return s
}

// Contains reports whether tp is in the set.
func (s PartitionSet) Contains(tp TopicPartition) bool {
	_, ok := s[tp]
	return ok
}

// Slice returns the partitions ordered by (topic, partition).
func (s PartitionSet) Slice() []TopicPartition {
	out := make([]TopicPartition, 0, len(s))
	for tp := range s {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Partition < out[j].Partition
	})
	return out
}

// clone returns a copy of the set.
func (s PartitionSet) clone() PartitionSet {
	out := make(PartitionSet, len(s))
	for tp := range s {
		out[tp] = struct{}{}
	}
	return out
}

// diff returns the partitions present in s but not in other.
func (s PartitionSet) diff(other PartitionSet) PartitionSet {
	out := make(PartitionSet)
	for tp := range s {
		if !other.Contains(tp) {
			out[tp] = struct{}{}
		}
	}
	return out
}

// topics returns the distinct topics covered by the given partitions.
func topics(tps []TopicPartition) []string {
	seen := make(map[string]struct{}, len(tps))
	out := make([]string, 0, len(tps))
	for _, tp := range tps {
		if _, ok := seen[tp.Topic]; ok {
			continue
		}
		seen[tp.Topic] = struct{}{}
		out = append(out, tp.Topic)
	}
	sort.Strings(out)
	return out
}
