package partmaint

//go:generate mockgen --source datastore/repository.go --destination mocks/repository.go -package mocks
