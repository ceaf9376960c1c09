package store

type Store interface {
	Job() Job
}

type DataStore struct {
	job Job
}

func NewStore() Store {
	return &DataStore{
		job: NewJobStore(),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}
