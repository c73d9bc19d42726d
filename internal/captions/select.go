package captions

// SelectTrack walks prefs in order and returns the first track whose code
// matches. For the same code a manually created track wins over a generated
// one. Languages outside prefs are never chosen.
func SelectTrack(tracks TrackList, prefs []string) (Track, error) {
	for _, code := range prefs {
		var generated *Track
		for i := range tracks {
			if tracks[i].LanguageCode != code {
				continue
			}
			if !tracks[i].Generated {
				return tracks[i], nil
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, nil
		}
	}
	return Track{}, &NoTrackError{
		Requested: append([]string{}, prefs...),
		Available: tracks.Codes(),
	}
}
